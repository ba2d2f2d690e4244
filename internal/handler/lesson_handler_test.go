package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/middleware"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/internal/service"
)

type lessonStoreMock struct {
	byWeek map[string][]models.Lesson
	byID   map[string]*models.Lesson
	saved  *models.Lesson
}

func (m *lessonStoreMock) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	lessons := m.byWeek[filter.WeekStart]
	return lessons, len(lessons), nil
}

func (m *lessonStoreMock) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return lesson, nil
}

func (m *lessonStoreMock) FindBySlot(ctx context.Context, weekStart, day, shift string, period int) (*models.Lesson, error) {
	return nil, sql.ErrNoRows
}

func (m *lessonStoreMock) ListByWeek(ctx context.Context, weekStart string) ([]models.Lesson, error) {
	return m.byWeek[weekStart], nil
}

func (m *lessonStoreMock) Upsert(ctx context.Context, lesson *models.Lesson) error {
	m.saved = lesson
	return nil
}

func (m *lessonStoreMock) BulkUpsert(ctx context.Context, lessons []models.Lesson) error {
	return nil
}

func (m *lessonStoreMock) Delete(ctx context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *lessonStoreMock) DeleteBySlot(ctx context.Context, weekStart, day, shift string, period int) error {
	return nil
}

func newLessonHandlerForTest(store *lessonStoreMock) *LessonHandler {
	svc := service.NewLessonService(store, nil, nil, zap.NewNop())
	return NewLessonHandler(svc)
}

func TestLessonHandlerSave(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &lessonStoreMock{}
	handler := newLessonHandlerForTest(store)

	payload, _ := json.Marshal(dto.LessonRequest{
		WeekStart: "2026-03-02",
		Day:       "dushanba",
		Shift:     "kunduzgi",
		Period:    1,
		Subject:   "Matematika",
		Room:      "JM403",
		Teacher:   "Karimov",
		Groups:    []string{"JM405"},
		Type:      "ma'ruza",
	})
	c, w := newTestContext(http.MethodPost, "/lessons", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleDispatcher})

	handler.Save(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.saved)
	require.Equal(t, "user-1", store.saved.UpdatedBy)
}

func TestLessonHandlerSaveInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLessonHandlerForTest(&lessonStoreMock{})

	c, w := newTestContext(http.MethodPost, "/lessons", []byte("{"))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleDispatcher})

	handler.Save(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLessonHandlerForTest(&lessonStoreMock{byID: map[string]*models.Lesson{}})

	c, w := newTestContext(http.MethodGet, "/lessons/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLessonHandlerWeek(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &lessonStoreMock{byWeek: map[string][]models.Lesson{
		"2026-03-02": {
			{WeekStart: "2026-03-02", Day: "dushanba", Shift: "kunduzgi", Period: 1, Subject: "Matematika"},
		},
	}}
	handler := newLessonHandlerForTest(store)

	c, w := newTestContext(http.MethodGet, "/schedule/week/2026-03-02", nil)
	c.Params = gin.Params{{Key: "weekStart", Value: "2026-03-02"}}

	handler.Week(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.WeekScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "2026-03-02", envelope.Data.WeekStart)
	require.Len(t, envelope.Data.Days, 5)
}

func TestLessonHandlerWeekBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLessonHandlerForTest(&lessonStoreMock{})

	c, w := newTestContext(http.MethodGet, "/schedule/week/2026-03-04", nil)
	c.Params = gin.Params{{Key: "weekStart", Value: "2026-03-04"}}

	handler.Week(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerDeleteSlotRequiresPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newLessonHandlerForTest(&lessonStoreMock{})

	c, w := newTestContext(http.MethodDelete, "/lessons/slot?weekStart=2026-03-02&day=dushanba&shift=kunduzgi", nil)

	handler.DeleteSlot(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
