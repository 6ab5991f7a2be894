package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/http/dto"
	"basegraph.app/eleot/internal/service"
)

type TeacherHandler struct {
	teachers service.TeacherService
}

func NewTeacherHandler(teachers service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List searches active teachers by name with ?search=.
func (h *TeacherHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	teachers, err := h.teachers.Search(ctx, c.Query("search"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list teachers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch teachers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"teachers": dto.ToTeacherResponses(teachers)})
}

func (h *TeacherHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var body dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	teacher, err := h.teachers.Create(ctx, service.CreateTeacherParams{
		NameAR:  body.NameAr,
		NameEN:  body.NameEn,
		Subject: body.Subject,
		Stage:   body.Stage,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTeacher) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to create teacher", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create teacher"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeacherResponse(teacher))
}
