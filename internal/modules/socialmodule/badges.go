package socialmodule

import (
	"context"
	"fmt"
	"time"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// Badge criteria kinds
const (
	badgeKindEpisodes = "episodes_watched"
	badgeKindSeries   = "series_completed"
)

// defaultBadges are seeded at startup if missing. Seeding is keyed on
// slug so restarting never duplicates a badge.
var defaultBadges = []database.Badge{
	{Slug: "first-episode", Name: "First Steps", Description: "Watch your first episode", Kind: badgeKindEpisodes, Threshold: 1},
	{Slug: "binge-watcher", Name: "Binge Watcher", Description: "Watch 50 episodes", Kind: badgeKindEpisodes, Threshold: 50},
	{Slug: "couch-veteran", Name: "Couch Veteran", Description: "Watch 250 episodes", Kind: badgeKindEpisodes, Threshold: 250},
	{Slug: "finisher", Name: "Finisher", Description: "Complete a series", Kind: badgeKindSeries, Threshold: 1},
	{Slug: "completionist", Name: "Completionist", Description: "Complete 10 series", Kind: badgeKindSeries, Threshold: 10},
}

// BadgeEvaluator awards badges from watch activity. It subscribes to
// watch events and re-checks the acting user's counts against every
// badge definition; awards are idempotent.
type BadgeEvaluator struct {
	db  *gorm.DB
	bus events.EventBus
}

// NewBadgeEvaluator creates a badge evaluator
func NewBadgeEvaluator(db *gorm.DB, bus events.EventBus) *BadgeEvaluator {
	return &BadgeEvaluator{db: db, bus: bus}
}

// Seed inserts any missing default badge definitions
func (b *BadgeEvaluator) Seed(ctx context.Context) error {
	for _, badge := range defaultBadges {
		var existing database.Badge
		err := b.db.WithContext(ctx).Where("slug = ?", badge.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return errors.NewDatabaseError("find badge", err)
		}
		row := badge
		if err := b.db.WithContext(ctx).Create(&row).Error; err != nil {
			return errors.NewDatabaseError("seed badge", err)
		}
	}
	return nil
}

// Subscribe hooks the evaluator into the event bus
func (b *BadgeEvaluator) Subscribe(bus events.EventBus) error {
	filter := events.EventFilter{
		Types: []events.EventType{events.EventEpisodeWatched, events.EventSeriesWatched},
	}
	_, err := bus.Subscribe(filter, func(event events.Event) error {
		userID, ok := dataUint32(event.Data, "user_id")
		if !ok {
			return nil
		}
		if err := b.Evaluate(context.Background(), userID); err != nil {
			logger.Warn("Badge evaluation failed", "user_id", userID, "error", err)
		}
		return nil
	})
	return err
}

// Evaluate checks the user's counts against all badge definitions and
// awards anything newly earned.
func (b *BadgeEvaluator) Evaluate(ctx context.Context, userID uint32) error {
	tracking, err := services.GetService[services.TrackingService](services.TrackingServiceName)
	if err != nil {
		return err
	}

	episodes, err := tracking.CountWatchedEpisodes(ctx, userID)
	if err != nil {
		return err
	}
	series, err := tracking.CountCompletedSeries(ctx, userID)
	if err != nil {
		return err
	}

	var badges []database.Badge
	if err := b.db.WithContext(ctx).Find(&badges).Error; err != nil {
		return errors.NewDatabaseError("list badges", err)
	}

	for _, badge := range badges {
		var count int64
		switch badge.Kind {
		case badgeKindEpisodes:
			count = episodes
		case badgeKindSeries:
			count = series
		default:
			continue
		}
		if count < int64(badge.Threshold) {
			continue
		}
		if err := b.award(ctx, userID, badge); err != nil {
			return err
		}
	}
	return nil
}

// award grants a badge once. The unique (user, badge) index makes a
// repeat award a no-op.
func (b *BadgeEvaluator) award(ctx context.Context, userID uint32, badge database.Badge) error {
	var existing database.UserBadge
	err := b.db.WithContext(ctx).
		Where("user_id = ? AND badge_id = ?", userID, badge.ID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return errors.NewDatabaseError("find user badge", err)
	}

	grant := database.UserBadge{
		UserID:    userID,
		BadgeID:   badge.ID,
		AwardedAt: time.Now(),
	}
	if err := b.db.WithContext(ctx).Create(&grant).Error; err != nil {
		// Lost a race against a concurrent evaluation; the badge is held
		// either way.
		return nil
	}

	logger.Info("Badge awarded", "user_id", userID, "badge", badge.Slug)
	if b.bus != nil {
		b.bus.PublishAsync(events.Event{
			Type:    events.EventBadgeAwarded,
			Source:  "module:social",
			Message: fmt.Sprintf("Badge %q awarded", badge.Name),
			Data: map[string]interface{}{
				"user_id":    userID,
				"badge_id":   badge.ID,
				"badge_slug": badge.Slug,
				"badge_name": badge.Name,
			},
		})
	}
	return nil
}

// ListUserBadges returns the badges a user holds with their definitions
func (b *BadgeEvaluator) ListUserBadges(ctx context.Context, userID uint32) ([]database.Badge, error) {
	var badges []database.Badge
	err := b.db.WithContext(ctx).
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at").
		Find(&badges).Error
	if err != nil {
		return nil, errors.NewDatabaseError("list user badges", err)
	}
	return badges, nil
}
