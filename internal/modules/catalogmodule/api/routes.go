package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all catalog module routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	showGroup := router.Group("/api/shows")
	{
		showGroup.GET("/:id", handler.GetShow)
		showGroup.GET("/:id/seasons", handler.GetSeasons)
	}

	seasonGroup := router.Group("/api/seasons")
	{
		seasonGroup.GET("/:id/episodes", handler.GetEpisodes)
	}

	episodeGroup := router.Group("/api/episodes")
	{
		episodeGroup.GET("/:id", handler.GetEpisode)
	}
}
