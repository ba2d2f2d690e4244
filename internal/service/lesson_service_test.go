package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/models"
	appErrors "github.com/jadval-app/jadval-api/pkg/errors"
)

type lessonRepoMock struct {
	upserted     *models.Lesson
	bulkUpserted []models.Lesson
	deletedSlot  string
	byWeek       map[string][]models.Lesson
	byID         map[string]*models.Lesson
	inSlot       *models.Lesson
}

func (m *lessonRepoMock) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	lessons := m.byWeek[filter.WeekStart]
	return lessons, len(lessons), nil
}

func (m *lessonRepoMock) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return lesson, nil
}

func (m *lessonRepoMock) FindBySlot(ctx context.Context, weekStart, day, shift string, period int) (*models.Lesson, error) {
	if m.inSlot == nil {
		return nil, sql.ErrNoRows
	}
	return m.inSlot, nil
}

func (m *lessonRepoMock) ListByWeek(ctx context.Context, weekStart string) ([]models.Lesson, error) {
	return m.byWeek[weekStart], nil
}

func (m *lessonRepoMock) Upsert(ctx context.Context, lesson *models.Lesson) error {
	m.upserted = lesson
	return nil
}

func (m *lessonRepoMock) BulkUpsert(ctx context.Context, lessons []models.Lesson) error {
	m.bulkUpserted = lessons
	return nil
}

func (m *lessonRepoMock) Delete(ctx context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *lessonRepoMock) DeleteBySlot(ctx context.Context, weekStart, day, shift string, period int) error {
	m.deletedSlot = weekStart + "|" + day + "|" + shift
	return nil
}

func validLessonRequest() dto.LessonRequest {
	return dto.LessonRequest{
		WeekStart: "2026-03-02",
		Day:       "dushanba",
		Shift:     "kunduzgi",
		Period:    1,
		Subject:   "Matematika",
		Room:      "JM403",
		Teacher:   "Karimov",
		Groups:    []string{"JM403", "JM405"},
		Type:      "ma'ruza",
	}
}

func newLessonServiceForTest(repo *lessonRepoMock) *LessonService {
	return NewLessonService(repo, nil, validator.New(), zap.NewNop())
}

func TestLessonServiceSaveNormalizes(t *testing.T) {
	repo := &lessonRepoMock{}
	svc := newLessonServiceForTest(repo)

	req := validLessonRequest()
	req.Day = "Dushanba"
	req.Shift = "KUNDUZGI"
	req.Room = " jm403 "
	req.Groups = []string{"jm403", "JM403", " jm405 "}
	req.Type = "Ma'ruza"

	lesson, err := svc.Save(context.Background(), req, "user-1")
	require.NoError(t, err)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, "dushanba", lesson.Day)
	assert.Equal(t, "kunduzgi", lesson.Shift)
	assert.Equal(t, "JM403", lesson.Room)
	assert.Equal(t, pq.StringArray{"JM403", "JM405"}, lesson.Groups)
	assert.Equal(t, "ma'ruza", lesson.Type)
	assert.Equal(t, "user-1", lesson.UpdatedBy)
}

func TestLessonServiceSaveValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.LessonRequest)
	}{
		{"week not monday", func(r *dto.LessonRequest) { r.WeekStart = "2026-03-03" }},
		{"week not a date", func(r *dto.LessonRequest) { r.WeekStart = "next week" }},
		{"unknown day", func(r *dto.LessonRequest) { r.Day = "yakshanba" }},
		{"unknown shift", func(r *dto.LessonRequest) { r.Shift = "tungi" }},
		{"unknown type", func(r *dto.LessonRequest) { r.Type = "darsxona" }},
		{"period outside shift", func(r *dto.LessonRequest) { r.Shift = "kechki"; r.Period = 3 }},
		{"bad room code", func(r *dto.LessonRequest) { r.Room = "40JM" }},
		{"bad group code", func(r *dto.LessonRequest) { r.Groups = []string{"J403"} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &lessonRepoMock{}
			svc := newLessonServiceForTest(repo)
			req := validLessonRequest()
			tc.mutate(&req)

			_, err := svc.Save(context.Background(), req, "user-1")
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			assert.Nil(t, repo.upserted)
		})
	}
}

func TestLessonServiceGetNotFound(t *testing.T) {
	svc := newLessonServiceForTest(&lessonRepoMock{byID: map[string]*models.Lesson{}})

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceGetWeekGrid(t *testing.T) {
	repo := &lessonRepoMock{byWeek: map[string][]models.Lesson{
		"2026-03-02": {
			{WeekStart: "2026-03-02", Day: "dushanba", Shift: "kunduzgi", Period: 1, Subject: "Matematika", Room: "JM403", Teacher: "Karimov", Groups: pq.StringArray{"JM403"}, Type: "ma'ruza"},
		},
	}}
	svc := newLessonServiceForTest(repo)

	grid, cached, err := svc.GetWeek(context.Background(), "2026-03-02")
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, grid.Days, 5)

	monday := grid.Days[0]
	assert.Equal(t, "dushanba", monday.Day)
	assert.Equal(t, "Dushanba", monday.Label)
	require.Len(t, monday.Shifts, 3)

	morning := monday.Shifts[0]
	assert.Equal(t, "kunduzgi", morning.Shift)
	require.Len(t, morning.Periods, 3)
	require.NotNil(t, morning.Periods[0].Lesson)
	assert.Equal(t, "Matematika", morning.Periods[0].Lesson.Subject)
	assert.Equal(t, "08:30", morning.Periods[0].Time)
	assert.Nil(t, morning.Periods[1].Lesson)

	evening := monday.Shifts[2]
	assert.Equal(t, "kechki", evening.Shift)
	require.Len(t, evening.Periods, 2)
}

func TestLessonServiceGetWeekRejectsBadDate(t *testing.T) {
	svc := newLessonServiceForTest(&lessonRepoMock{})

	_, _, err := svc.GetWeek(context.Background(), "2026-03-04")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceCopyWeek(t *testing.T) {
	repo := &lessonRepoMock{byWeek: map[string][]models.Lesson{
		"2026-03-02": {
			{ID: "a", WeekStart: "2026-03-02", Day: "dushanba", Shift: "kunduzgi", Period: 1, Subject: "Matematika"},
			{ID: "b", WeekStart: "2026-03-02", Day: "juma", Shift: "kechki", Period: 2, Subject: "Fizika"},
		},
	}}
	svc := newLessonServiceForTest(repo)

	resp, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{FromWeek: "2026-03-02", ToWeek: "2026-03-09"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Copied)
	require.Len(t, repo.bulkUpserted, 2)
	for _, lesson := range repo.bulkUpserted {
		assert.Empty(t, lesson.ID)
		assert.Equal(t, "2026-03-09", lesson.WeekStart)
		assert.Equal(t, "user-1", lesson.UpdatedBy)
	}
}

func TestLessonServiceCopyWeekEmptySource(t *testing.T) {
	repo := &lessonRepoMock{byWeek: map[string][]models.Lesson{}}
	svc := newLessonServiceForTest(repo)

	resp, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{FromWeek: "2026-03-02", ToWeek: "2026-03-09"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Copied)
	assert.Nil(t, repo.bulkUpserted)
}

func TestLessonServiceCopyWeekSameWeek(t *testing.T) {
	svc := newLessonServiceForTest(&lessonRepoMock{})

	_, err := svc.CopyWeek(context.Background(), dto.CopyWeekRequest{FromWeek: "2026-03-02", ToWeek: "2026-03-02"}, "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceDeleteSlot(t *testing.T) {
	repo := &lessonRepoMock{inSlot: &models.Lesson{ID: "a", WeekStart: "2026-03-02"}}
	svc := newLessonServiceForTest(repo)

	err := svc.DeleteSlot(context.Background(), "2026-03-02", "Dushanba", "kunduzgi", 1)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02|dushanba|kunduzgi", repo.deletedSlot)

	err = svc.DeleteSlot(context.Background(), "2026-03-02", "sunday", "kunduzgi", 1)
	require.Error(t, err)
}

func TestLessonServiceDeleteSlotEmpty(t *testing.T) {
	repo := &lessonRepoMock{}
	svc := newLessonServiceForTest(repo)

	err := svc.DeleteSlot(context.Background(), "2026-03-02", "dushanba", "kunduzgi", 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deletedSlot)
}
