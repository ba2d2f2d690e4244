package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/middleware"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/internal/service"
	"github.com/jadval-app/jadval-api/pkg/config"
)

type lessonSaverMock struct {
	saved *dto.LessonRequest
}

func (m *lessonSaverMock) Save(ctx context.Context, req dto.LessonRequest, updatedBy string) (*models.Lesson, error) {
	m.saved = &req
	return &models.Lesson{WeekStart: req.WeekStart, Day: req.Day, Subject: req.Subject}, nil
}

func newTestContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func newVoiceHandlerForTest(saver *lessonSaverMock) *VoiceHandler {
	svc := service.NewVoiceService(saver, nil, zap.NewNop(), nil, config.VoiceConfig{})
	return NewVoiceHandler(svc)
}

func TestVoiceHandlerInterpret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newVoiceHandlerForTest(&lessonSaverMock{})

	payload, _ := json.Marshal(dto.InterpretRequest{
		Text:       "Dushanba kunduzgi 1-para Matematika JM403 JM403 JM405 Karimov ma'ruza",
		Confidence: 0.9,
	})
	c, w := newTestContext(http.MethodPost, "/voice/interpret", payload)

	handler.Interpret(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data dto.InterpretResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Best)
	require.True(t, envelope.Data.Best.Command.IsComplete)
}

func TestVoiceHandlerInterpretTooShort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newVoiceHandlerForTest(&lessonSaverMock{})

	payload, _ := json.Marshal(dto.InterpretRequest{Text: "ok"})
	c, w := newTestContext(http.MethodPost, "/voice/interpret", payload)

	handler.Interpret(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoiceHandlerCommit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	saver := &lessonSaverMock{}
	handler := newVoiceHandlerForTest(saver)

	payload, _ := json.Marshal(dto.CommitRequest{
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
	c, w := newTestContext(http.MethodPost, "/voice/commit", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleDispatcher})

	handler.Commit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, saver.saved)
}

func TestVoiceHandlerCommitIncomplete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	saver := &lessonSaverMock{}
	handler := newVoiceHandlerForTest(saver)

	payload, _ := json.Marshal(dto.CommitRequest{
		WeekStart: "2026-03-02",
		Day:       "dushanba",
		Shift:     "kunduzgi",
		Period:    1,
		Subject:   "Matematika",
		Teacher:   "Karimov",
		Type:      "ma'ruza",
	})
	c, w := newTestContext(http.MethodPost, "/voice/commit", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleDispatcher})

	handler.Commit(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "INCOMPLETE_COMMAND", envelope.Error.Code)
	require.Contains(t, envelope.Error.Message, "Xona")
	require.Contains(t, envelope.Error.Message, "Guruhlar")
	require.Nil(t, saver.saved)
}

func TestVoiceHandlerCommitUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newVoiceHandlerForTest(&lessonSaverMock{})

	payload, _ := json.Marshal(dto.CommitRequest{
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
	c, w := newTestContext(http.MethodPost, "/voice/commit", payload)

	handler.Commit(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVoiceHandlerLanguages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newVoiceHandlerForTest(&lessonSaverMock{})

	c, w := newTestContext(http.MethodGet, "/voice/languages", nil)

	handler.Languages(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []dto.LanguageInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 3)
}
