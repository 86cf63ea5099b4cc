package router

import (
	"github.com/Yy2z/crypto-hunter/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, huntHandler *handler.HuntHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		HuntRouter(v1.Group("/hunts"), huntHandler)
	}
}
