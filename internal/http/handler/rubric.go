package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/http/dto"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/textnorm"
)

type RubricHandler struct {
	rubric *rubric.Rubric
}

func NewRubricHandler(r *rubric.Rubric) *RubricHandler {
	if r == nil {
		r = rubric.Default()
	}
	return &RubricHandler{rubric: r}
}

// Get returns the rubric labelled in the ?lang= language (Arabic by default).
func (h *RubricHandler) Get(c *gin.Context) {
	lang := textnorm.ParseLanguage(c.Query("lang"))
	c.JSON(http.StatusOK, dto.ToRubricResponse(h.rubric, lang))
}
