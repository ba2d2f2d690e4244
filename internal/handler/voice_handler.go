package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/service"
	appErrors "github.com/jadval-app/jadval-api/pkg/errors"
	"github.com/jadval-app/jadval-api/pkg/response"
)

// VoiceHandler exposes voice command interpretation endpoints.
type VoiceHandler struct {
	service *service.VoiceService
}

// NewVoiceHandler constructs handler.
func NewVoiceHandler(svc *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{service: svc}
}

// Interpret godoc
// @Summary Interpret a transcribed lesson command
// @Tags Voice
// @Accept json
// @Produce json
// @Param payload body dto.InterpretRequest true "Transcript payload"
// @Success 200 {object} response.Envelope
// @Router /voice/interpret [post]
func (h *VoiceHandler) Interpret(c *gin.Context) {
	var req dto.InterpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Interpret(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Commit godoc
// @Summary Commit a reviewed command into the schedule
// @Tags Voice
// @Accept json
// @Produce json
// @Param payload body dto.CommitRequest true "Reviewed command"
// @Success 201 {object} response.Envelope
// @Router /voice/commit [post]
func (h *VoiceHandler) Commit(c *gin.Context) {
	var req dto.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	lesson, err := h.service.Commit(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Languages godoc
// @Summary List supported capture languages
// @Tags Voice
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /voice/languages [get]
func (h *VoiceHandler) Languages(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Languages(), nil)
}
