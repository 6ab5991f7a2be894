package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/http/handler"
)

func EvaluationRouter(rg *gin.RouterGroup, h *handler.EvaluationHandler) {
	rg.POST("", h.Evaluate)
	rg.GET("/schema", h.Schema)
}

// LegacyEvaluationRouter keeps the paths older clients post to.
func LegacyEvaluationRouter(rg *gin.RouterGroup, h *handler.EvaluationHandler) {
	rg.POST("", h.Evaluate)
	rg.GET("/debug", h.Samples)
}
