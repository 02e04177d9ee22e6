package database

import (
	"time"
)

// User represents a user account. Authentication is handled by an
// external gateway; only the account record lives here.
type User struct {
	ID        uint32    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// =============================================================================
// CATALOG CACHE TABLES
// =============================================================================

// Show mirrors a series from the external catalog. ExternalID is the
// natural key: one row per external id, created once by ingestion and
// never refreshed afterwards.
type Show struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ExternalID   int64      `gorm:"uniqueIndex;not null" json:"external_id"`
	Title        string     `gorm:"not null;index" json:"title"`
	Synopsis     string     `gorm:"type:text" json:"synopsis"`
	FirstAirDate *time.Time `json:"first_air_date"`
	Genres       string     `json:"genres"` // comma-joined
	SeasonCount  int        `json:"season_count"`
	Rating       *float64   `json:"rating"`
	PosterURL    string     `json:"poster_url,omitempty"`
	Creators     string     `json:"creators"` // comma-joined, "Unknown" if none
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Season belongs to a show. Immutable after creation except for the
// cached EpisodeIDs list, which is appended once episodes are ingested.
type Season struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ExternalID     int64     `gorm:"uniqueIndex;not null" json:"external_id"`
	ShowExternalID int64     `gorm:"not null;index" json:"show_external_id"`
	Number         int       `gorm:"not null" json:"number"` // 1-based ordinal within the show
	EpisodeIDs     string    `gorm:"type:text" json:"episode_ids"` // comma-joined external ids, in fetch order
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Episode belongs to a season. Episodes with a null ordinal at the
// source (specials) are never stored.
type Episode struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ExternalID       int64      `gorm:"uniqueIndex;not null" json:"external_id"`
	SeasonExternalID int64      `gorm:"not null;index" json:"season_external_id"`
	ShowExternalID   int64      `gorm:"not null;index" json:"show_external_id"`
	Title            string     `json:"title"`
	Number           int        `gorm:"not null" json:"number"` // ordinal within season
	RuntimeMinutes   int        `json:"runtime_minutes"`
	AirDate          *time.Time `json:"air_date"`
	PosterURL        string     `json:"poster_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// =============================================================================
// TRACKING TABLES
// =============================================================================

// ViewingHistoryEntry marks an episode as watched by a user. One entry
// per (user, episode) is the watched marker; uniqueness is not enforced
// by the schema and progress computation counts distinct episodes.
type ViewingHistoryEntry struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            uint32    `gorm:"not null;index:idx_history_user" json:"user_id"`
	EpisodeExternalID int64     `gorm:"not null;index" json:"episode_external_id"`
	SeasonExternalID  int64     `gorm:"not null;index" json:"season_external_id"`
	ShowExternalID    int64     `gorm:"not null;index" json:"show_external_id"`
	WatchDate         time.Time `gorm:"not null" json:"watch_date"`
	TimeWatched       int       `json:"time_watched"` // minutes
	EpisodeProgress   int       `json:"episode_progress"` // 0-100
	CreatedAt         time.Time `json:"created_at"`
}

// SeriesProgress holds a user's completion percentage for a series.
// One row per (user, series); always recomputed from full history.
type SeriesProgress struct {
	ID             uint32    `gorm:"primaryKey" json:"id"`
	UserID         uint32    `gorm:"not null;uniqueIndex:idx_series_progress_user_show" json:"user_id"`
	ShowExternalID int64     `gorm:"not null;uniqueIndex:idx_series_progress_user_show" json:"show_external_id"`
	Percentage     int       `gorm:"not null" json:"percentage"` // always 0-100
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SeasonProgress is the per-season analogue of SeriesProgress.
type SeasonProgress struct {
	ID               uint32    `gorm:"primaryKey" json:"id"`
	UserID           uint32    `gorm:"not null;uniqueIndex:idx_season_progress_user_season" json:"user_id"`
	SeasonExternalID int64     `gorm:"not null;uniqueIndex:idx_season_progress_user_season" json:"season_external_id"`
	ShowExternalID   int64     `gorm:"not null;index" json:"show_external_id"`
	Percentage       int       `gorm:"not null" json:"percentage"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WatchedSeries marks a series as fully watched by a user. Its
// existence guards the watch cascade against double application.
type WatchedSeries struct {
	ID             uint32    `gorm:"primaryKey" json:"id"`
	UserID         uint32    `gorm:"not null;uniqueIndex:idx_watched_user_show" json:"user_id"`
	ShowExternalID int64     `gorm:"not null;uniqueIndex:idx_watched_user_show" json:"show_external_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// WatchlistEntry is a series a user intends to watch.
type WatchlistEntry struct {
	ID             uint32    `gorm:"primaryKey" json:"id"`
	UserID         uint32    `gorm:"not null;uniqueIndex:idx_watchlist_user_show" json:"user_id"`
	ShowExternalID int64     `gorm:"not null;uniqueIndex:idx_watchlist_user_show" json:"show_external_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// =============================================================================
// SOCIAL TABLES
// =============================================================================

// SeriesLike records a user liking a series.
type SeriesLike struct {
	ID             uint32    `gorm:"primaryKey" json:"id"`
	UserID         uint32    `gorm:"not null;uniqueIndex:idx_like_user_show" json:"user_id"`
	ShowExternalID int64     `gorm:"not null;uniqueIndex:idx_like_user_show" json:"show_external_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Review is a user's rating and optional text for a series. One review
// per (user, series); a second submission updates the first.
type Review struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         uint32    `gorm:"not null;uniqueIndex:idx_review_user_show" json:"user_id"`
	ShowExternalID int64     `gorm:"not null;uniqueIndex:idx_review_user_show" json:"show_external_id"`
	Rating         int       `gorm:"not null" json:"rating"` // 1-10
	Body           string    `gorm:"type:text" json:"body,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Follow is a directed edge between users.
type Follow struct {
	ID         uint32    `gorm:"primaryKey" json:"id"`
	FollowerID uint32    `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"follower_id"`
	FolloweeID uint32    `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Badge is an achievement definition. Criteria are evaluated from
// viewing-history counts by the social module.
type Badge struct {
	ID          uint32    `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Kind        string    `gorm:"not null" json:"kind"` // episodes_watched, series_completed
	Threshold   int       `gorm:"not null" json:"threshold"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserBadge records a badge award. Awarding is idempotent.
type UserBadge struct {
	ID        uint32    `gorm:"primaryKey" json:"id"`
	UserID    uint32    `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID   uint32    `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
}

// Notification is an in-app notification row. Delivery beyond this
// table (push, email) is out of scope.
type Notification struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uint32    `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"not null;index" json:"type"`
	Message   string    `gorm:"not null" json:"message"`
	Data      string    `gorm:"type:text" json:"data,omitempty"` // JSON payload
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
