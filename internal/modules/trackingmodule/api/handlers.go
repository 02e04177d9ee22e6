// Package api exposes watch tracking over HTTP. The acting user is
// taken from the X-User-ID header; there is no authentication layer in
// front of it.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// Handler handles tracking HTTP requests
type Handler struct {
	tracking services.TrackingService
	db       *gorm.DB
}

// NewHandler creates a tracking API handler
func NewHandler(tracking services.TrackingService, db *gorm.DB) *Handler {
	return &Handler{tracking: tracking, db: db}
}

// WatchEpisode handles POST /api/tracking/episodes/:id/watch
func (h *Handler) WatchEpisode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tracking.WatchEpisode(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "watched"})
}

// UnwatchEpisode handles DELETE /api/tracking/episodes/:id/watch
func (h *Handler) UnwatchEpisode(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tracking.UnwatchEpisode(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unwatched"})
}

// MarkSeriesWatched handles POST /api/tracking/shows/:id/watched
func (h *Handler) MarkSeriesWatched(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tracking.MarkSeriesWatched(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "watched"})
}

// UnmarkSeriesWatched handles DELETE /api/tracking/shows/:id/watched
func (h *Handler) UnmarkSeriesWatched(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tracking.UnmarkSeriesWatched(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unwatched"})
}

// GetSeriesProgress handles GET /api/tracking/shows/:id/progress
// It returns the stored series percentage plus the per-season rows.
func (h *Handler) GetSeriesProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var series database.SeriesProgress
	err := h.db.Where("user_id = ? AND show_external_id = ?", userID, id).First(&series).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		errors.HandleError(c, errors.NewDatabaseError("find series progress", err))
		return
	}

	var seasons []database.SeasonProgress
	if err := h.db.Where("user_id = ? AND show_external_id = ?", userID, id).Find(&seasons).Error; err != nil {
		errors.HandleError(c, errors.NewDatabaseError("list season progress", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"show_external_id": id,
		"percentage":       series.Percentage,
		"seasons":          seasons,
	})
}

// AddToWatchlist handles POST /api/tracking/watchlist/:id
func (h *Handler) AddToWatchlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tracking.AddToWatchlist(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

// RemoveFromWatchlist handles DELETE /api/tracking/watchlist/:id
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.tracking.RemoveFromWatchlist(c.Request.Context(), userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// GetWatchlist handles GET /api/tracking/watchlist
func (h *Handler) GetWatchlist(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var entries []database.WatchlistEntry
	if err := h.db.Where("user_id = ?", userID).Order("created_at").Find(&entries).Error; err != nil {
		errors.HandleError(c, errors.NewDatabaseError("list watchlist", err))
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetStats handles GET /api/tracking/stats
func (h *Handler) GetStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	episodes, err := h.tracking.CountWatchedEpisodes(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	series, err := h.tracking.CountCompletedSeries(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"episodes_watched": episodes,
		"series_completed": series,
	})
}

// currentUser reads the acting user from the X-User-ID header.
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
