package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/eleot/common/id"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/http/dto"
	"basegraph.app/eleot/internal/service"
)

type VisitHandler struct {
	visits      service.VisitService
	traceHeader string
}

// NewVisitHandler builds the visit handler. traceHeader names the request
// header whose trace id is carried to the persistence worker.
func NewVisitHandler(visits service.VisitService, traceHeader string) *VisitHandler {
	return &VisitHandler{visits: visits, traceHeader: traceHeader}
}

// Create evaluates the lesson and queues the visit for persistence.
func (h *VisitHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var body dto.CreateVisitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	created, err := h.visits.Create(ctx, service.CreateVisitParams{
		TeacherName: body.TeacherName,
		Subject:     body.Subject,
		Grade:       body.Grade,
		Parts:       body.LessonParts(),
		Date:        body.VisitDate(),
		Evaluation:  body.ToRequest(false),
		TraceID:     h.traceID(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, evaluation.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": dto.MissingFieldsMessage})
		case errors.Is(err, service.ErrNoScoredCriteria):
			c.JSON(http.StatusBadRequest, gin.H{"error": "selectedEnvironments must include at least one of A-G"})
		case errors.Is(err, service.ErrPersistenceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visit storage is not available"})
		default:
			slog.ErrorContext(ctx, "failed to create visit", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create visit"})
		}
		return
	}

	slog.InfoContext(ctx, "visit accepted",
		"visit_id", created.Visit.ID,
		"overall_score", created.Visit.OverallScore,
	)

	c.JSON(http.StatusAccepted, dto.VisitAcceptedResponse{
		Status:     "accepted",
		Visit:      dto.ToVisitResponse(created.Visit),
		Evaluation: created.View,
	})
}

func (h *VisitHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	visitID, ok := parseVisitID(c)
	if !ok {
		return
	}

	visit, err := h.visits.Get(ctx, visitID)
	if err != nil {
		if errors.Is(err, service.ErrVisitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get visit", "error", err, "visit_id", visitID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get visit"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVisitResponse(visit))
}

func (h *VisitHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	limit, err := queryInt32(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	offset, err := queryInt32(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be an integer"})
		return
	}

	visits, err := h.visits.List(ctx, limit, offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list visits", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list visits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"visits": dto.ToVisitResponses(visits)})
}

func (h *VisitHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	visitID, ok := parseVisitID(c)
	if !ok {
		return
	}

	if err := h.visits.Delete(ctx, visitID); err != nil {
		if errors.Is(err, service.ErrVisitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to delete visit", "error", err, "visit_id", visitID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete visit"})
		return
	}

	c.Status(http.StatusNoContent)
}

// traceID prefers the active span so the worker joins the same trace, then
// falls back to the configured header.
func (h *VisitHandler) traceID(c *gin.Context) *string {
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		tid := sc.TraceID().String()
		return &tid
	}
	if h.traceHeader == "" {
		return nil
	}
	if tid := c.GetHeader(h.traceHeader); tid != "" {
		return &tid
	}
	return nil
}

func parseVisitID(c *gin.Context) (int64, bool) {
	visitID, err := id.Parse(c.Param("id"))
	if err != nil || visitID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visit id"})
		return 0, false
	}
	return visitID, true
}

func queryInt32(c *gin.Context, key string) (int32, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
