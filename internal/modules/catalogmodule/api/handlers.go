// Package api exposes the catalog over HTTP.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/services"
)

// Handler handles catalog HTTP requests
type Handler struct {
	catalog services.CatalogService
}

// NewHandler creates a catalog API handler
func NewHandler(catalog services.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// GetShow handles GET /api/shows/:id
// It returns the show, ingesting it from the remote catalog first if the
// local cache has never seen it.
func (h *Handler) GetShow(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	show, err := h.catalog.EnsureSeriesIngested(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, show)
}

// GetSeasons handles GET /api/shows/:id/seasons
// It returns the locally cached seasons of a show, ordered by number.
func (h *Handler) GetSeasons(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.catalog.EnsureSeriesIngested(c.Request.Context(), id); err != nil {
		errors.HandleError(c, err)
		return
	}

	seasons, err := h.catalog.ListSeasons(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, seasons)
}

// GetEpisodes handles GET /api/seasons/:id/episodes
// It reads the local cache only; the season must already be ingested.
func (h *Handler) GetEpisodes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	episodes, err := h.catalog.ListEpisodes(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, episodes)
}

// GetEpisode handles GET /api/episodes/:id
func (h *Handler) GetEpisode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	episode, err := h.catalog.FindEpisode(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, episode)
}

// parseID parses a numeric external id path parameter, writing a
// validation response itself when the value is malformed.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.NewValidationError("must be a numeric catalog id", name))
		return 0, false
	}
	return id, true
}
