package service

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/pkg/export"
	"github.com/jadval-app/jadval-api/pkg/storage"
)

type weekLessonsStub struct {
	lessons []models.Lesson
}

func (s weekLessonsStub) ListByWeek(ctx context.Context, weekStart string) ([]models.Lesson, error) {
	return s.lessons, nil
}

func sampleWeekLessons() []models.Lesson {
	return []models.Lesson{
		{
			WeekStart: "2026-03-02",
			Day:       "dushanba",
			Shift:     "kunduzgi",
			Period:    1,
			Subject:   "Matematika",
			Room:      "JM403",
			Teacher:   "Karimov",
			Groups:    pq.StringArray{"JM403", "JM405"},
			Type:      "ma'ruza",
		},
		{
			WeekStart: "2026-03-02",
			Day:       "seshanba",
			Shift:     "kechki",
			Period:    2,
			Subject:   "Fizika",
			Room:      "A101",
			Teacher:   "Rahimova",
			Groups:    pq.StringArray{"IT201"},
			Type:      "amaliy",
		},
	}
}

func newExportServiceForTest(t *testing.T, lessons []models.Lesson) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(weekLessonsStub{lessons: lessons}, store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t, sampleWeekLessons())
	job := &models.ExportJob{
		ID:        "job-1",
		Params:    models.ExportJobParams{WeekStart: "2026-03-02", Format: models.ExportFormatCSV},
		CreatedBy: "admin",
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ExportFormatCSV, result.Format)
	require.Contains(t, result.URL, "/api/v1/exports/download/")
	require.True(t, strings.HasSuffix(result.URL, result.Token))

	file, err := os.Open(store.Path(result.RelativePath))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, exportHeaders, records[0])
	require.Equal(t, "Dushanba", records[1][0])
	require.Equal(t, "Matematika", records[1][4])
	require.Equal(t, "JM403, JM405", records[1][6])
	require.Equal(t, "Fizika", records[2][4])
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t, sampleWeekLessons())
	job := &models.ExportJob{
		ID:        "job-2",
		Params:    models.ExportJobParams{WeekStart: "2026-03-02", Format: models.ExportFormatPDF},
		CreatedBy: "admin",
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ExportFormatPDF, result.Format)

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceShiftFilter(t *testing.T) {
	svc, store := newExportServiceForTest(t, sampleWeekLessons())
	shift := "kechki"
	job := &models.ExportJob{
		ID:        "job-3",
		Params:    models.ExportJobParams{WeekStart: "2026-03-02", Shift: &shift, Format: models.ExportFormatCSV},
		CreatedBy: "admin",
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	file, err := os.Open(store.Path(result.RelativePath))
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Fizika", records[1][4])
}

func TestExportServiceTokenRoundTrip(t *testing.T) {
	svc, _ := newExportServiceForTest(t, sampleWeekLessons())
	job := &models.ExportJob{
		ID:        "job-4",
		Params:    models.ExportJobParams{WeekStart: "2026-03-02", Format: models.ExportFormatCSV},
		CreatedBy: "admin",
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	jobID, relPath, expiresAt, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	require.Equal(t, "job-4", jobID)
	require.Equal(t, result.RelativePath, relPath)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	file, err := svc.Open(relPath)
	require.NoError(t, err)
	require.NoError(t, file.Close())
}
