package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/eleot/internal/http/handler"
)

func TeacherRouter(rg *gin.RouterGroup, h *handler.TeacherHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
}
