package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/internal/repository"
	appErrors "github.com/jadval-app/jadval-api/pkg/errors"
	"github.com/jadval-app/jadval-api/pkg/jobs"
)

type jobStoreMock struct {
	jobs    map[string]*models.ExportJob
	updates []repository.UpdateExportJobParams
}

func newJobStoreMock() *jobStoreMock {
	return &jobStoreMock{jobs: map[string]*models.ExportJob{}}
}

func (m *jobStoreMock) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = "job-1"
	}
	clone := *job
	m.jobs[job.ID] = &clone
	return nil
}

func (m *jobStoreMock) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *job
	return &clone, nil
}

func (m *jobStoreMock) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	m.updates = append(m.updates, params)
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	return nil
}

func (m *jobStoreMock) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	out := make([]models.ExportJob, 0)
	for _, job := range m.jobs {
		if job.Status == models.ExportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (m *jobStoreMock) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

type dispatcherMock struct {
	enqueued []jobs.Job
	err      error
}

func (m *dispatcherMock) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

type generatorMock struct {
	result *ExportResult
	err    error
}

func (m *generatorMock) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	return m.result, m.err
}

func newExportJobServiceForTest(store *jobStoreMock, queue *dispatcherMock, exporter *ExportService) *ExportJobService {
	return NewExportJobService(store, queue, exporter, zap.NewNop(), ExportJobServiceConfig{ResultTTL: time.Hour})
}

func TestExportJobServiceCreateJob(t *testing.T) {
	store := newJobStoreMock()
	queue := &dispatcherMock{}
	svc := newExportJobServiceForTest(store, queue, nil)

	resp, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		WeekStart: "2026-03-02",
		Format:    models.ExportFormatCSV,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, resp.Status)

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, resp.ID, queue.enqueued[0].ID)
	assert.Equal(t, "schedule_export", queue.enqueued[0].Type)

	stored := store.jobs[resp.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", stored.CreatedBy)
	assert.Equal(t, "2026-03-02", stored.Params.WeekStart)
}

func TestExportJobServiceCreateJobValidation(t *testing.T) {
	store := newJobStoreMock()
	svc := newExportJobServiceForTest(store, &dispatcherMock{}, nil)

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		WeekStart: "2026-03-03",
		Format:    models.ExportFormatCSV,
	}, "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateJob(context.Background(), dto.ExportRequest{
		WeekStart: "2026-03-02",
		Format:    models.ExportFormat("xlsx"),
	}, "user-1")
	require.Error(t, err)
	assert.Empty(t, store.jobs)
}

func TestExportJobServiceCreateJobEnqueueFailure(t *testing.T) {
	store := newJobStoreMock()
	queue := &dispatcherMock{err: errors.New("queue stopped")}
	svc := newExportJobServiceForTest(store, queue, nil)

	_, err := svc.CreateJob(context.Background(), dto.ExportRequest{
		WeekStart: "2026-03-02",
		Format:    models.ExportFormatPDF,
	}, "user-1")
	require.Error(t, err)

	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, models.ExportStatusFailed, job.Status)
	}
}

func TestExportJobServiceGetStatusOwnership(t *testing.T) {
	store := newJobStoreMock()
	url := "/api/v1/exports/download/tok"
	store.jobs["job-1"] = &models.ExportJob{
		ID:        "job-1",
		Status:    models.ExportStatusFinished,
		Progress:  100,
		ResultURL: &url,
		CreatedBy: "owner",
	}
	svc := newExportJobServiceForTest(store, &dispatcherMock{}, nil)

	resp, err := svc.GetStatus(context.Background(), "job-1", "owner", models.RoleDispatcher)
	require.NoError(t, err)
	require.NotNil(t, resp.ResultURL)
	assert.Equal(t, url, *resp.ResultURL)

	_, err = svc.GetStatus(context.Background(), "job-1", "someone-else", models.RoleViewer)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.GetStatus(context.Background(), "job-1", "someone-else", models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.GetStatus(context.Background(), "missing", "owner", models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportJobServiceResolveDownload(t *testing.T) {
	exporter, _ := newExportServiceForTest(t, sampleWeekLessons())
	store := newJobStoreMock()
	store.jobs["job-9"] = &models.ExportJob{
		ID:        "job-9",
		Status:    models.ExportStatusQueued,
		Params:    models.ExportJobParams{WeekStart: "2026-03-02", Format: models.ExportFormatCSV},
		CreatedBy: "owner",
	}
	svc := newExportJobServiceForTest(store, &dispatcherMock{}, exporter)

	result, err := exporter.Generate(context.Background(), store.jobs["job-9"])
	require.NoError(t, err)

	// not finished yet
	store.jobs["job-9"].ResultURL = &result.URL
	_, err = svc.ResolveDownload(context.Background(), result.Token)
	require.Error(t, err)

	store.jobs["job-9"].Status = models.ExportStatusFinished
	download, err := svc.ResolveDownload(context.Background(), result.Token)
	require.NoError(t, err)
	require.NotNil(t, download.File)
	require.NoError(t, download.File.Close())
	assert.Equal(t, models.ExportFormatCSV, download.Format)
	assert.NotEmpty(t, download.Filename)

	_, err = svc.ResolveDownload(context.Background(), "garbage-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestExportJobServiceRecoverPendingJobs(t *testing.T) {
	store := newJobStoreMock()
	store.jobs["queued"] = &models.ExportJob{ID: "queued", Status: models.ExportStatusQueued}
	store.jobs["done"] = &models.ExportJob{ID: "done", Status: models.ExportStatusFinished}
	queue := &dispatcherMock{}
	svc := newExportJobServiceForTest(store, queue, nil)

	svc.RecoverPendingJobs(context.Background())
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "queued", queue.enqueued[0].ID)
}

func TestExportWorkerHandleSuccess(t *testing.T) {
	store := newJobStoreMock()
	store.jobs["job-1"] = &models.ExportJob{
		ID:     "job-1",
		Status: models.ExportStatusQueued,
		Params: models.ExportJobParams{WeekStart: "2026-03-02", Format: models.ExportFormatCSV},
	}
	gen := &generatorMock{result: &ExportResult{URL: "/api/v1/exports/download/tok"}}
	worker := NewExportWorker(store, gen, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1"})
	require.NoError(t, err)

	job := store.jobs["job-1"]
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, "/api/v1/exports/download/tok", *job.ResultURL)
}

func TestExportWorkerHandleRetry(t *testing.T) {
	store := newJobStoreMock()
	store.jobs["job-1"] = &models.ExportJob{ID: "job-1", Status: models.ExportStatusQueued}
	gen := &generatorMock{err: errors.New("render failed")}
	worker := NewExportWorker(store, gen, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 0})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusQueued, store.jobs["job-1"].Status)
	require.NotNil(t, store.jobs["job-1"].ErrorMessage)
}

func TestExportWorkerHandleExhaustedRetries(t *testing.T) {
	store := newJobStoreMock()
	store.jobs["job-1"] = &models.ExportJob{ID: "job-1", Status: models.ExportStatusQueued}
	gen := &generatorMock{err: errors.New("render failed")}
	worker := NewExportWorker(store, gen, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 3})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, store.jobs["job-1"].Status)
	assert.Equal(t, 100, store.jobs["job-1"].Progress)
}
