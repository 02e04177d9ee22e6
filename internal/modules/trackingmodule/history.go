package trackingmodule

import (
	"context"
	"fmt"
	"time"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/utils"
)

// WatchEpisode records a viewing history entry for an episode and
// recomputes the season and series percentages it affects. The episode
// must already be in the local catalog cache.
func (s *trackingService) WatchEpisode(ctx context.Context, userID uint32, episodeExternalID int64) error {
	episode, err := s.catalog.FindEpisode(ctx, episodeExternalID)
	if err != nil {
		return err
	}

	entry := database.ViewingHistoryEntry{
		ID:                utils.GenerateUUID(),
		UserID:            userID,
		EpisodeExternalID: episode.ExternalID,
		SeasonExternalID:  episode.SeasonExternalID,
		ShowExternalID:    episode.ShowExternalID,
		WatchDate:         time.Now(),
		TimeWatched:       episode.RuntimeMinutes,
		EpisodeProgress:   100,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return errors.NewDatabaseError("create viewing history entry", err)
	}

	if err := s.recomputeBoth(ctx, userID, episode.SeasonExternalID, episode.ShowExternalID); err != nil {
		return err
	}

	s.publish(events.EventEpisodeWatched,
		fmt.Sprintf("Episode %d watched", episode.ExternalID),
		map[string]interface{}{
			"user_id":             userID,
			"episode_external_id": episode.ExternalID,
			"show_external_id":    episode.ShowExternalID,
		})
	return nil
}

// UnwatchEpisode removes every history entry the user has for the
// episode and recomputes the affected percentages.
func (s *trackingService) UnwatchEpisode(ctx context.Context, userID uint32, episodeExternalID int64) error {
	episode, err := s.catalog.FindEpisode(ctx, episodeExternalID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND episode_external_id = ?", userID, episodeExternalID).
		Delete(&database.ViewingHistoryEntry{})
	if result.Error != nil {
		return errors.NewDatabaseError("delete viewing history entries", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("viewing history", fmt.Sprintf("%d", episodeExternalID))
	}

	if err := s.recomputeBoth(ctx, userID, episode.SeasonExternalID, episode.ShowExternalID); err != nil {
		return err
	}

	s.publish(events.EventEpisodeUnwatched,
		fmt.Sprintf("Episode %d unwatched", episode.ExternalID),
		map[string]interface{}{
			"user_id":             userID,
			"episode_external_id": episode.ExternalID,
			"show_external_id":    episode.ShowExternalID,
		})
	return nil
}

func (s *trackingService) recomputeBoth(ctx context.Context, userID uint32, seasonExternalID, seriesExternalID int64) error {
	if _, err := s.RecomputeSeasonProgress(ctx, userID, seasonExternalID, seriesExternalID); err != nil {
		return err
	}
	if _, err := s.RecomputeSeriesProgress(ctx, userID, seriesExternalID); err != nil {
		return err
	}
	return nil
}
