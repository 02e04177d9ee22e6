package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all tracking module routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	trackingGroup := router.Group("/api/tracking")
	{
		trackingGroup.POST("/episodes/:id/watch", handler.WatchEpisode)
		trackingGroup.DELETE("/episodes/:id/watch", handler.UnwatchEpisode)

		trackingGroup.POST("/shows/:id/watched", handler.MarkSeriesWatched)
		trackingGroup.DELETE("/shows/:id/watched", handler.UnmarkSeriesWatched)
		trackingGroup.GET("/shows/:id/progress", handler.GetSeriesProgress)

		trackingGroup.POST("/watchlist/:id", handler.AddToWatchlist)
		trackingGroup.DELETE("/watchlist/:id", handler.RemoveFromWatchlist)
		trackingGroup.GET("/watchlist", handler.GetWatchlist)

		trackingGroup.GET("/stats", handler.GetStats)
	}
}
