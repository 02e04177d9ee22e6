// Package events provides the in-process event bus used for
// cross-module notifications: badge evaluation, the live notification
// stream, and auditing.
package events

import (
	"time"
)

// EventType represents the type of event
type EventType string

// System-wide event types
const (
	// Catalog events
	EventSeriesIngested EventType = "series.ingested"

	// Tracking events
	EventEpisodeWatched   EventType = "episode.watched"
	EventEpisodeUnwatched EventType = "episode.unwatched"
	EventSeriesWatched    EventType = "series.watched"
	EventSeriesUnwatched  EventType = "series.unwatched"
	EventWatchlistAdded   EventType = "watchlist.added"

	// Social events
	EventSeriesLiked   EventType = "series.liked"
	EventReviewCreated EventType = "review.created"
	EventUserFollowed  EventType = "user.followed"
	EventBadgeAwarded  EventType = "badge.awarded"

	// User events
	EventUserCreated EventType = "user.created"

	// System events
	EventSystemStarted EventType = "system.started"
	EventSystemStopped EventType = "system.stopped"
)

// Event represents a system event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"` // module:<id>, user:<id>, system
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EventHandler represents a function that handles events
type EventHandler func(event Event) error

// EventFilter selects events for a subscription. Empty fields match
// everything.
type EventFilter struct {
	Types   []EventType `json:"types,omitempty"`
	Sources []string    `json:"sources,omitempty"`
}

// Subscription represents an event subscription
type Subscription struct {
	ID           string      `json:"id"`
	Filter       EventFilter `json:"filter"`
	Handler      EventHandler `json:"-"`
	Created      time.Time   `json:"created"`
	TriggerCount int64       `json:"trigger_count"`
}

// MatchesFilter reports whether an event passes a subscription filter
func MatchesFilter(event Event, filter EventFilter) bool {
	if len(filter.Types) > 0 {
		matched := false
		for _, t := range filter.Types {
			if event.Type == t {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if len(filter.Sources) > 0 {
		matched := false
		for _, s := range filter.Sources {
			if event.Source == s {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
