package trackingmodule

import (
	"context"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/modules/databasemodule"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// trackingService implements services.TrackingService. All progress
// math runs off viewing history counted by distinct episode id, so a
// duplicated history row never inflates a percentage.
type trackingService struct {
	db      *gorm.DB
	txm     *databasemodule.TransactionManager
	catalog services.CatalogService
	bus     events.EventBus
}

// NewService creates the tracking service
func NewService(db *gorm.DB, txm *databasemodule.TransactionManager, catalog services.CatalogService, bus events.EventBus) services.TrackingService {
	return &trackingService{
		db:      db,
		txm:     txm,
		catalog: catalog,
		bus:     bus,
	}
}

// CountWatchedEpisodes returns the number of distinct episodes the user
// has any history for.
func (s *trackingService) CountWatchedEpisodes(ctx context.Context, userID uint32) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ?", userID).
		Distinct("episode_external_id").
		Count(&count).Error
	if err != nil {
		return 0, errors.NewDatabaseError("count watched episodes", err)
	}
	return count, nil
}

// CountCompletedSeries returns the number of series the user has at
// one hundred percent.
func (s *trackingService) CountCompletedSeries(ctx context.Context, userID uint32) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&database.SeriesProgress{}).
		Where("user_id = ? AND percentage >= 100", userID).
		Count(&count).Error
	if err != nil {
		return 0, errors.NewDatabaseError("count completed series", err)
	}
	return count, nil
}

func (s *trackingService) publish(eventType events.EventType, message string, data map[string]interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.PublishAsync(events.Event{
		Type:    eventType,
		Source:  "module:tracking",
		Message: message,
		Data:    data,
	})
}
