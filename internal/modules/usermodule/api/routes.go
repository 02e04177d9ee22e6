package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user module routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	userGroup := router.Group("/api/users")
	{
		userGroup.POST("", handler.CreateUser)
		userGroup.GET("", handler.ListUsers)
		userGroup.GET("/:id", handler.GetUser)
		userGroup.DELETE("/:id", handler.DeleteUser)
	}
}
