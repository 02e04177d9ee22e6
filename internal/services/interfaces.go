package services

import (
	"context"

	"github.com/skoller/showsync/internal/database"
)

// Service names used with the registry.
const (
	CatalogServiceName  = "catalog"
	TrackingServiceName = "tracking"
	UserServiceName     = "users"
)

// SeasonOrder carries the catalog's authoritative episode count for a
// season. Progress percentages divide by these counts, never by the
// locally cached episode count; the two diverge under partial
// ingestion.
type SeasonOrder struct {
	SeasonExternalID int64 `json:"season_external_id"`
	Number           int   `json:"number"`
	EpisodeOrder     int   `json:"episode_order"`
}

// CatalogService is the catalog module's public API.
type CatalogService interface {
	// EnsureSeriesIngested populates the local cache for a show and
	// returns its row. Safe to call repeatedly.
	EnsureSeriesIngested(ctx context.Context, externalID int64) (*database.Show, error)

	// GetShow returns the locally cached show, without ingesting.
	GetShow(ctx context.Context, externalID int64) (*database.Show, error)

	// ListSeasons and ListEpisodes read the local cache only.
	ListSeasons(ctx context.Context, showExternalID int64) ([]database.Season, error)
	ListEpisodes(ctx context.Context, seasonExternalID int64) ([]database.Episode, error)
	FindEpisode(ctx context.Context, externalID int64) (*database.Episode, error)

	// SeasonOrders fetches the authoritative per-season episode counts
	// from the remote catalog.
	SeasonOrders(ctx context.Context, showExternalID int64) ([]SeasonOrder, error)
}

// TrackingService is the tracking module's public API.
type TrackingService interface {
	WatchEpisode(ctx context.Context, userID uint32, episodeExternalID int64) error
	UnwatchEpisode(ctx context.Context, userID uint32, episodeExternalID int64) error
	RecomputeSeriesProgress(ctx context.Context, userID uint32, seriesExternalID int64) (int, error)
	RecomputeSeasonProgress(ctx context.Context, userID uint32, seasonExternalID, seriesExternalID int64) (int, error)
	MarkSeriesWatched(ctx context.Context, userID uint32, seriesExternalID int64) error
	UnmarkSeriesWatched(ctx context.Context, userID uint32, seriesExternalID int64) error
	AddToWatchlist(ctx context.Context, userID uint32, seriesExternalID int64) error
	RemoveFromWatchlist(ctx context.Context, userID uint32, seriesExternalID int64) error
	CountWatchedEpisodes(ctx context.Context, userID uint32) (int64, error)
	CountCompletedSeries(ctx context.Context, userID uint32) (int64, error)
}

// UserService is the user module's public API.
type UserService interface {
	CreateUser(ctx context.Context, username, email string) (*database.User, error)
	GetUser(ctx context.Context, id uint32) (*database.User, error)
	ListUsers(ctx context.Context) ([]database.User, error)
	DeleteUser(ctx context.Context, id uint32) error
}
