package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/middleware"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/internal/service"
	appErrors "github.com/jadval-app/jadval-api/pkg/errors"
	"github.com/jadval-app/jadval-api/pkg/response"
)

// LessonHandler manages lesson and week schedule endpoints.
type LessonHandler struct {
	service *service.LessonService
}

// NewLessonHandler constructs handler.
func NewLessonHandler(svc *service.LessonService) *LessonHandler {
	return &LessonHandler{service: svc}
}

// List godoc
// @Summary List lessons
// @Tags Lessons
// @Produce json
// @Param weekStart query string false "Filter by week (Monday ISO date)"
// @Param day query string false "Filter by day"
// @Param shift query string false "Filter by shift"
// @Param teacher query string false "Filter by teacher"
// @Param group query string false "Filter by group code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	var filter models.LessonFilter
	filter.WeekStart = c.Query("weekStart")
	filter.Day = c.Query("day")
	filter.Shift = c.Query("shift")
	filter.Teacher = c.Query("teacher")
	filter.Group = c.Query("group")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}

	lessons, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, pagination)
}

// Get godoc
// @Summary Get lesson by id
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Save godoc
// @Summary Create or replace the lesson occupying a slot
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body dto.LessonRequest true "Lesson payload"
// @Success 201 {object} response.Envelope
// @Router /lessons [post]
func (h *LessonHandler) Save(c *gin.Context) {
	var req dto.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	lesson, err := h.service.Save(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Delete godoc
// @Summary Delete lesson by id
// @Tags Lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteSlot godoc
// @Summary Free one schedule slot
// @Tags Lessons
// @Produce json
// @Param weekStart query string true "Week (Monday ISO date)"
// @Param day query string true "Day"
// @Param shift query string true "Shift"
// @Param period query int true "Period"
// @Success 204
// @Router /lessons/slot [delete]
func (h *LessonHandler) DeleteSlot(c *gin.Context) {
	period, err := strconv.Atoi(c.Query("period"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be a number"))
		return
	}
	if err := h.service.DeleteSlot(c.Request.Context(), c.Query("weekStart"), c.Query("day"), c.Query("shift"), period); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Week godoc
// @Summary Week schedule grid
// @Tags Schedule
// @Produce json
// @Param weekStart path string true "Week (Monday ISO date)"
// @Success 200 {object} response.Envelope
// @Router /schedule/week/{weekStart} [get]
func (h *LessonHandler) Week(c *gin.Context) {
	grid, cached, err := h.service.GetWeek(c.Request.Context(), c.Param("weekStart"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, grid, nil, middleware.ExtractMeta(c))
}

// CopyWeek godoc
// @Summary Copy all lessons of one week into another
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.CopyWeekRequest true "Copy payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/copy-week [post]
func (h *LessonHandler) CopyWeek(c *gin.Context) {
	var req dto.CopyWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.service.CopyWeek(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
