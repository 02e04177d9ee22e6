package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all social module routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	socialGroup := router.Group("/api/social")
	{
		socialGroup.POST("/shows/:id/like", handler.LikeSeries)
		socialGroup.DELETE("/shows/:id/like", handler.UnlikeSeries)
		socialGroup.GET("/shows/:id/likes", handler.GetLikes)

		socialGroup.POST("/shows/:id/reviews", handler.CreateReview)
		socialGroup.GET("/shows/:id/reviews", handler.ListReviews)
		socialGroup.DELETE("/shows/:id/reviews", handler.DeleteReview)

		socialGroup.POST("/users/:id/follow", handler.FollowUser)
		socialGroup.DELETE("/users/:id/follow", handler.UnfollowUser)
		socialGroup.GET("/users/:id/followers", handler.GetFollowers)
		socialGroup.GET("/users/:id/following", handler.GetFollowing)
		socialGroup.GET("/users/:id/badges", handler.GetUserBadges)

		socialGroup.GET("/notifications", handler.GetNotifications)
		socialGroup.POST("/notifications/read", handler.MarkAllNotificationsRead)
		socialGroup.POST("/notifications/:id/read", handler.MarkNotificationRead)
	}
}
