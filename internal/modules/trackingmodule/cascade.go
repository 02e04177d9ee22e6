package trackingmodule

import (
	"context"
	"fmt"
	"time"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/utils"
	"gorm.io/gorm"
)

// MarkSeriesWatched marks an entire series as watched in one
// transaction: the watched marker, a 100% series row, a 100% row per
// cached season, and one history entry per cached episode. It never
// triggers ingestion; a show with nothing cached gets the marker and
// the 100% series row and nothing else.
func (s *trackingService) MarkSeriesWatched(ctx context.Context, userID uint32, seriesExternalID int64) error {
	var existing database.WatchedSeries
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND show_external_id = ?", userID, seriesExternalID).
		First(&existing).Error
	if err == nil {
		return errors.NewConflictError("series already marked watched", map[string]interface{}{
			"show_external_id": seriesExternalID,
		})
	}
	if err != gorm.ErrRecordNotFound {
		return errors.NewDatabaseError("find watched marker", err)
	}

	seasons, err := s.catalog.ListSeasons(ctx, seriesExternalID)
	if err != nil {
		return err
	}

	now := time.Now()
	err = s.txm.WithTransaction(ctx, func(tx *gorm.DB) error {
		marker := database.WatchedSeries{
			UserID:         userID,
			ShowExternalID: seriesExternalID,
		}
		if err := tx.WithContext(ctx).Create(&marker).Error; err != nil {
			return errors.NewDatabaseError("create watched marker", err)
		}

		if err := upsertSeriesProgressTx(ctx, tx, userID, seriesExternalID, 100); err != nil {
			return err
		}

		for _, season := range seasons {
			if err := upsertSeasonProgressTx(ctx, tx, userID, season.ExternalID, seriesExternalID, 100); err != nil {
				return err
			}

			episodes, err := s.catalog.ListEpisodes(ctx, season.ExternalID)
			if err != nil {
				return err
			}
			for _, episode := range episodes {
				entry := database.ViewingHistoryEntry{
					ID:                utils.GenerateUUID(),
					UserID:            userID,
					EpisodeExternalID: episode.ExternalID,
					SeasonExternalID:  episode.SeasonExternalID,
					ShowExternalID:    episode.ShowExternalID,
					WatchDate:         now,
					TimeWatched:       episode.RuntimeMinutes,
					EpisodeProgress:   100,
				}
				if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
					return errors.NewDatabaseError("create viewing history entry", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(events.EventSeriesWatched,
		fmt.Sprintf("Series %d marked watched", seriesExternalID),
		map[string]interface{}{
			"user_id":          userID,
			"show_external_id": seriesExternalID,
		})
	return nil
}

// UnmarkSeriesWatched tears the cascade back down in one transaction:
// marker, progress rows, and every history entry for the series are
// deleted directly, with no recompute pass afterwards.
func (s *trackingService) UnmarkSeriesWatched(ctx context.Context, userID uint32, seriesExternalID int64) error {
	var marker database.WatchedSeries
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND show_external_id = ?", userID, seriesExternalID).
		First(&marker).Error
	if err == gorm.ErrRecordNotFound {
		return errors.NewNotFoundError("watched marker", fmt.Sprintf("%d", seriesExternalID))
	}
	if err != nil {
		return errors.NewDatabaseError("find watched marker", err)
	}

	err = s.txm.WithTransaction(ctx, func(tx *gorm.DB) error {
		scope := "user_id = ? AND show_external_id = ?"
		if err := tx.WithContext(ctx).Where(scope, userID, seriesExternalID).
			Delete(&database.WatchedSeries{}).Error; err != nil {
			return errors.NewDatabaseError("delete watched marker", err)
		}
		if err := tx.WithContext(ctx).Where(scope, userID, seriesExternalID).
			Delete(&database.SeriesProgress{}).Error; err != nil {
			return errors.NewDatabaseError("delete series progress", err)
		}
		if err := tx.WithContext(ctx).Where(scope, userID, seriesExternalID).
			Delete(&database.SeasonProgress{}).Error; err != nil {
			return errors.NewDatabaseError("delete season progress", err)
		}
		if err := tx.WithContext(ctx).Where(scope, userID, seriesExternalID).
			Delete(&database.ViewingHistoryEntry{}).Error; err != nil {
			return errors.NewDatabaseError("delete viewing history", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(events.EventSeriesUnwatched,
		fmt.Sprintf("Series %d unmarked", seriesExternalID),
		map[string]interface{}{
			"user_id":          userID,
			"show_external_id": seriesExternalID,
		})
	return nil
}
