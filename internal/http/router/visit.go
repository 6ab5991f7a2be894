package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/http/handler"
)

func VisitRouter(rg *gin.RouterGroup, h *handler.VisitHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
