package trackingmodule

import (
	"context"
	"math"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"gorm.io/gorm"
)

// RecomputeSeriesProgress recalculates a user's percentage for a whole
// series and stores it. The denominator is the catalog's authoritative
// episode count summed over every season, not the locally cached row
// count; the numerator is the number of distinct episodes with history.
func (s *trackingService) RecomputeSeriesProgress(ctx context.Context, userID uint32, seriesExternalID int64) (int, error) {
	orders, err := s.catalog.SeasonOrders(ctx, seriesExternalID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, order := range orders {
		total += order.EpisodeOrder
	}

	var watched int64
	err = s.db.WithContext(ctx).
		Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ? AND show_external_id = ?", userID, seriesExternalID).
		Distinct("episode_external_id").
		Count(&watched).Error
	if err != nil {
		return 0, errors.NewDatabaseError("count series history", err)
	}

	pct := percentage(watched, total)
	if err := s.upsertSeriesProgress(ctx, userID, seriesExternalID, pct); err != nil {
		return 0, err
	}
	return pct, nil
}

// RecomputeSeasonProgress recalculates a user's percentage for one
// season and stores it.
func (s *trackingService) RecomputeSeasonProgress(ctx context.Context, userID uint32, seasonExternalID, seriesExternalID int64) (int, error) {
	orders, err := s.catalog.SeasonOrders(ctx, seriesExternalID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, order := range orders {
		if order.SeasonExternalID == seasonExternalID {
			total = order.EpisodeOrder
			break
		}
	}

	var watched int64
	err = s.db.WithContext(ctx).
		Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ? AND season_external_id = ?", userID, seasonExternalID).
		Distinct("episode_external_id").
		Count(&watched).Error
	if err != nil {
		return 0, errors.NewDatabaseError("count season history", err)
	}

	pct := percentage(watched, total)
	if err := s.upsertSeasonProgress(ctx, userID, seasonExternalID, seriesExternalID, pct); err != nil {
		return 0, err
	}
	return pct, nil
}

// percentage rounds 100*watched/total to the nearest integer and clamps
// it to [0, 100]. A zero total yields zero, never a division error.
func percentage(watched int64, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(watched) * 100 / float64(total)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (s *trackingService) upsertSeriesProgress(ctx context.Context, userID uint32, seriesExternalID int64, pct int) error {
	return upsertSeriesProgressTx(ctx, s.db, userID, seriesExternalID, pct)
}

func (s *trackingService) upsertSeasonProgress(ctx context.Context, userID uint32, seasonExternalID, seriesExternalID int64, pct int) error {
	return upsertSeasonProgressTx(ctx, s.db, userID, seasonExternalID, seriesExternalID, pct)
}

// upsertSeriesProgressTx writes a series progress row on the given
// handle so the cascade can reuse it inside a transaction.
func upsertSeriesProgressTx(ctx context.Context, db *gorm.DB, userID uint32, seriesExternalID int64, pct int) error {
	var row database.SeriesProgress
	err := db.WithContext(ctx).
		Where("user_id = ? AND show_external_id = ?", userID, seriesExternalID).
		First(&row).Error
	switch {
	case err == nil:
		row.Percentage = pct
		if err := db.WithContext(ctx).Save(&row).Error; err != nil {
			return errors.NewDatabaseError("update series progress", err)
		}
		return nil
	case err == gorm.ErrRecordNotFound:
		row = database.SeriesProgress{
			UserID:         userID,
			ShowExternalID: seriesExternalID,
			Percentage:     pct,
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return errors.NewDatabaseError("create series progress", err)
		}
		return nil
	default:
		return errors.NewDatabaseError("find series progress", err)
	}
}

func upsertSeasonProgressTx(ctx context.Context, db *gorm.DB, userID uint32, seasonExternalID, seriesExternalID int64, pct int) error {
	var row database.SeasonProgress
	err := db.WithContext(ctx).
		Where("user_id = ? AND season_external_id = ?", userID, seasonExternalID).
		First(&row).Error
	switch {
	case err == nil:
		row.Percentage = pct
		if err := db.WithContext(ctx).Save(&row).Error; err != nil {
			return errors.NewDatabaseError("update season progress", err)
		}
		return nil
	case err == gorm.ErrRecordNotFound:
		row = database.SeasonProgress{
			UserID:           userID,
			SeasonExternalID: seasonExternalID,
			ShowExternalID:   seriesExternalID,
			Percentage:       pct,
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return errors.NewDatabaseError("create season progress", err)
		}
		return nil
	default:
		return errors.NewDatabaseError("find season progress", err)
	}
}
