package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/http/handler"
	"basegraph.app/eleot/internal/rubric"
	"basegraph.app/eleot/internal/service"
)

type RouterConfig struct {
	DebugEnabled    bool
	TraceHeaderName string
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	evalHandler := handler.NewEvaluationHandler(services.Evaluations(), cfg.DebugEnabled)
	LegacyEvaluationRouter(router.Group("/api/ai-evaluate"), evalHandler)

	v1 := router.Group("/api/v1")
	{
		EvaluationRouter(v1.Group("/evaluations"), evalHandler)
		v1.POST("/clarifications/questions", evalHandler.Questions)
		v1.GET("/rubric", handler.NewRubricHandler(rubric.Default()).Get)

		VisitRouter(v1.Group("/visits"), handler.NewVisitHandler(services.Visits(), cfg.TraceHeaderName))
		v1.GET("/reports", handler.NewReportHandler(services.Reports()).Get)
		TeacherRouter(v1.Group("/teachers"), handler.NewTeacherHandler(services.Teachers()))
	}
}
