package router

import (
	"github.com/Yy2z/crypto-hunter/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func HuntRouter(router *gin.RouterGroup, handler *handler.HuntHandler) {
	router.POST("", handler.Create)
	router.POST("/run", handler.Run)
	router.GET("", handler.List)
	router.GET("/:id", handler.Get)
	router.GET("/:id/export", handler.Export)
}
