package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/http/dto"
	"basegraph.app/eleot/internal/service"
	"basegraph.app/eleot/internal/textnorm"
)

type EvaluationHandler struct {
	evaluations  service.EvaluationService
	debugEnabled bool
}

func NewEvaluationHandler(evaluations service.EvaluationService, debugEnabled bool) *EvaluationHandler {
	return &EvaluationHandler{
		evaluations:  evaluations,
		debugEnabled: debugEnabled,
	}
}

// Evaluate scores a lesson description. Also mounted at the legacy
// /api/ai-evaluate path.
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	ctx := c.Request.Context()

	// Field type mismatches decode to defaults, so a bind error means the
	// body carries neither a description nor environments.
	var body dto.EvaluateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": dto.MissingFieldsMessage})
		return
	}

	view, err := h.evaluations.Evaluate(ctx, body.ToRequest(h.debugRequested(c)))
	if err != nil {
		if errors.Is(err, evaluation.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": dto.MissingFieldsMessage})
			return
		}
		slog.ErrorContext(ctx, "evaluation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evaluate lesson"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// Samples lists the built-in debug payloads.
func (h *EvaluationHandler) Samples(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SamplesResponse{Samples: evaluation.Samples()})
}

func (h *EvaluationHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, dto.EvaluateRequestSchema())
}

func (h *EvaluationHandler) Questions(c *gin.Context) {
	ctx := c.Request.Context()

	var body dto.QuestionsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	description := body.Description
	if description == "" {
		description = body.LessonDescription
	}
	envs := body.Environments
	if len(envs) == 0 {
		envs = body.SelectedEnvironments
	}
	if len(envs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "environments are required"})
		return
	}

	lang := textnorm.ParseLanguage(body.Language)
	questions := h.evaluations.Questions(ctx, description, envs, lang)

	c.JSON(http.StatusOK, dto.ToQuestionsResponse(questions, lang))
}

func (h *EvaluationHandler) debugRequested(c *gin.Context) bool {
	if !h.debugEnabled {
		return false
	}
	switch c.Query("debug") {
	case "1", "true":
		return true
	}
	return false
}
