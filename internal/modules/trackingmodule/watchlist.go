package trackingmodule

import (
	"context"
	"fmt"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
)

// AddToWatchlist puts a series on the user's watchlist, ingesting it
// first so the entry always points at a cached show.
func (s *trackingService) AddToWatchlist(ctx context.Context, userID uint32, seriesExternalID int64) error {
	show, err := s.catalog.EnsureSeriesIngested(ctx, seriesExternalID)
	if err != nil {
		return err
	}

	entry := database.WatchlistEntry{
		UserID:         userID,
		ShowExternalID: seriesExternalID,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return errors.NewConflictError("series already on watchlist", map[string]interface{}{
			"show_external_id": seriesExternalID,
		})
	}

	s.publish(events.EventWatchlistAdded,
		fmt.Sprintf("%q added to watchlist", show.Title),
		map[string]interface{}{
			"user_id":          userID,
			"show_external_id": seriesExternalID,
			"title":            show.Title,
		})
	return nil
}

// RemoveFromWatchlist drops a series from the user's watchlist.
func (s *trackingService) RemoveFromWatchlist(ctx context.Context, userID uint32, seriesExternalID int64) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND show_external_id = ?", userID, seriesExternalID).
		Delete(&database.WatchlistEntry{})
	if result.Error != nil {
		return errors.NewDatabaseError("delete watchlist entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("watchlist entry", fmt.Sprintf("%d", seriesExternalID))
	}
	return nil
}
