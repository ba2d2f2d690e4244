package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/lexicon"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/pkg/export"
	"github.com/jadval-app/jadval-api/pkg/storage"
)

type weekLessonReader interface {
	ListByWeek(ctx context.Context, weekStart string) ([]models.Lesson, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds week-schedule datasets and persists rendered files.
type ExportService struct {
	lessons weekLessonReader
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(lessons weekLessonReader, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		lessons: lessons,
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the week dataset for a job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job.Params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/exports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	weekPart := sanitizeFilename(job.Params.WeekStart)
	return fmt.Sprintf("jadval_%s_%s.%s", weekPart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

var exportHeaders = []string{"Kun", "Bo'lim", "Para", "Vaqt", "Fan", "Xona", "Guruhlar", "O'qituvchi", "Dars turi"}

// buildDataset lays out one row per occupied timetable slot in week order.
func (s *ExportService) buildDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	lessons, err := s.lessons.ListByWeek(ctx, params.WeekStart)
	if err != nil {
		return export.Dataset{}, "", err
	}

	bySlot := make(map[string]*models.Lesson, len(lessons))
	for i := range lessons {
		lesson := lessons[i]
		bySlot[fmt.Sprintf("%s|%s|%d", lesson.Day, lesson.Shift, lesson.Period)] = &lesson
	}

	rows := make([]map[string]string, 0, len(lessons))
	for _, day := range lexicon.Days {
		for _, sched := range lexicon.Timetable {
			if params.Shift != nil && *params.Shift != string(sched.Shift) {
				continue
			}
			for _, slot := range sched.Times {
				lesson := bySlot[fmt.Sprintf("%s|%s|%d", day, sched.Shift, slot.Period)]
				if lesson == nil {
					continue
				}
				rows = append(rows, map[string]string{
					"Kun":        lexicon.DayLabel(day),
					"Bo'lim":     sched.Label,
					"Para":       fmt.Sprintf("%d", slot.Period),
					"Vaqt":       slot.Time,
					"Fan":        lesson.Subject,
					"Xona":       lesson.Room,
					"Guruhlar":   strings.Join(lesson.Groups, ", "),
					"O'qituvchi": lesson.Teacher,
					"Dars turi":  lexicon.TypeLabel(lexicon.LessonType(lesson.Type)),
				})
			}
		}
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: rows}
	title := fmt.Sprintf("Dars jadvali %s", params.WeekStart)
	return dataset, title, nil
}
