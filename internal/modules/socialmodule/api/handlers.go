// Package api exposes the social layer over HTTP. The acting user is
// taken from the X-User-ID header.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
)

// SocialService is the slice of the social module the handlers need.
// Declared here so the api package does not import its parent.
type SocialService interface {
	LikeSeries(ctx context.Context, userID uint32, seriesExternalID int64) error
	UnlikeSeries(ctx context.Context, userID uint32, seriesExternalID int64) error
	CountLikes(ctx context.Context, seriesExternalID int64) (int64, error)
	CreateReview(ctx context.Context, userID uint32, seriesExternalID int64, rating int, body string) (*database.Review, error)
	ListReviews(ctx context.Context, seriesExternalID int64) ([]database.Review, error)
	DeleteReview(ctx context.Context, userID uint32, seriesExternalID int64) error
	FollowUser(ctx context.Context, followerID, followeeID uint32) error
	UnfollowUser(ctx context.Context, followerID, followeeID uint32) error
	ListFollowers(ctx context.Context, userID uint32) ([]database.Follow, error)
	ListFollowing(ctx context.Context, userID uint32) ([]database.Follow, error)
}

// BadgeService lists a user's earned badges
type BadgeService interface {
	ListUserBadges(ctx context.Context, userID uint32) ([]database.Badge, error)
}

// NotificationService reads and updates a user's notifications
type NotificationService interface {
	List(ctx context.Context, userID uint32, unreadOnly bool) ([]database.Notification, error)
	MarkRead(ctx context.Context, userID uint32, notificationID string) error
	MarkAllRead(ctx context.Context, userID uint32) error
}

// Handler handles social HTTP requests
type Handler struct {
	social   SocialService
	badges   BadgeService
	notifier NotificationService
}

// NewHandler creates a social API handler
func NewHandler(social SocialService, badges BadgeService, notifier NotificationService) *Handler {
	return &Handler{social: social, badges: badges, notifier: notifier}
}

// LikeSeries handles POST /api/social/shows/:id/like
func (h *Handler) LikeSeries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.social.LikeSeries(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "liked"})
}

// UnlikeSeries handles DELETE /api/social/shows/:id/like
func (h *Handler) UnlikeSeries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.social.UnlikeSeries(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unliked"})
}

// GetLikes handles GET /api/social/shows/:id/likes
func (h *Handler) GetLikes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	count, err := h.social.CountLikes(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"show_external_id": id, "likes": count})
}

// createReviewRequest is the POST body for reviews
type createReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Body   string `json:"body"`
}

// CreateReview handles POST /api/social/shows/:id/reviews
func (h *Handler) CreateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleValidationError(c, "invalid request body: "+err.Error(), "body")
		return
	}

	review, err := h.social.CreateReview(c.Request.Context(), userID, id, req.Rating, req.Body)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListReviews handles GET /api/social/shows/:id/reviews
func (h *Handler) ListReviews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reviews, err := h.social.ListReviews(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// DeleteReview handles DELETE /api/social/shows/:id/reviews
func (h *Handler) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.social.DeleteReview(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// FollowUser handles POST /api/social/users/:id/follow
func (h *Handler) FollowUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	followee, ok := parseUserID(c, "id")
	if !ok {
		return
	}

	if err := h.social.FollowUser(c.Request.Context(), userID, followee); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "following"})
}

// UnfollowUser handles DELETE /api/social/users/:id/follow
func (h *Handler) UnfollowUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	followee, ok := parseUserID(c, "id")
	if !ok {
		return
	}

	if err := h.social.UnfollowUser(c.Request.Context(), userID, followee); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unfollowed"})
}

// GetFollowers handles GET /api/social/users/:id/followers
func (h *Handler) GetFollowers(c *gin.Context) {
	id, ok := parseUserID(c, "id")
	if !ok {
		return
	}

	followers, err := h.social.ListFollowers(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, followers)
}

// GetFollowing handles GET /api/social/users/:id/following
func (h *Handler) GetFollowing(c *gin.Context) {
	id, ok := parseUserID(c, "id")
	if !ok {
		return
	}

	following, err := h.social.ListFollowing(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, following)
}

// GetUserBadges handles GET /api/social/users/:id/badges
func (h *Handler) GetUserBadges(c *gin.Context) {
	id, ok := parseUserID(c, "id")
	if !ok {
		return
	}

	badges, err := h.badges.ListUserBadges(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, badges)
}

// GetNotifications handles GET /api/social/notifications
// ?unread=true narrows to unread rows.
func (h *Handler) GetNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.notifier.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead handles POST /api/social/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.notifier.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// MarkAllNotificationsRead handles POST /api/social/notifications/read
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.notifier.MarkAllRead(c.Request.Context(), userID); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func currentUser(c *gin.Context) (uint32, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		errors.HandleValidationError(c, "missing X-User-ID header", "X-User-ID")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		errors.HandleValidationError(c, "X-User-ID must be numeric", "X-User-ID")
		return 0, false
	}
	return uint32(id), true
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		errors.HandleValidationError(c, "must be a numeric catalog id", name)
		return 0, false
	}
	return id, true
}

func parseUserID(c *gin.Context, name string) (uint32, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		errors.HandleValidationError(c, "must be a numeric user id", name)
		return 0, false
	}
	return uint32(id), true
}
