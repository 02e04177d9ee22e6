// Package store implements the local catalog cache over gorm. Rows are
// keyed by the catalog's external ids and are never considered stale
// once written; the only post-creation update is the season's cached
// episode-id list.
package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"gorm.io/gorm"
)

// Store provides natural-key lookups and writes for the catalog cache.
type Store struct {
	db *gorm.DB
}

// NewStore creates a catalog cache store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx returns a store bound to the given transaction. The ingestion
// pipeline uses this to group a season and its episodes into one
// unit of work.
func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

// FindShow looks up a show by its external id
func (s *Store) FindShow(ctx context.Context, externalID int64) (*database.Show, error) {
	var show database.Show
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&show).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("show", fmt.Sprintf("%d", externalID))
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find show", err)
	}
	return &show, nil
}

// CreateShow inserts a show row. A uniqueness conflict on external_id
// means a concurrent ingestion won the race; the winner's row is
// re-read and returned instead of an error.
func (s *Store) CreateShow(ctx context.Context, show *database.Show) (*database.Show, error) {
	err := s.db.WithContext(ctx).Create(show).Error
	if err == nil {
		return show, nil
	}

	existing, findErr := s.FindShow(ctx, show.ExternalID)
	if findErr == nil {
		return existing, nil
	}
	return nil, errors.NewDatabaseError("create show", err)
}

// FindSeason looks up a season by (external id, show external id)
func (s *Store) FindSeason(ctx context.Context, externalID, showExternalID int64) (*database.Season, error) {
	var season database.Season
	err := s.db.WithContext(ctx).
		Where("external_id = ? AND show_external_id = ?", externalID, showExternalID).
		First(&season).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("season", fmt.Sprintf("%d", externalID))
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find season", err)
	}
	return &season, nil
}

// CreateSeason inserts a season row, treating a uniqueness conflict as
// a benign concurrent create like CreateShow does.
func (s *Store) CreateSeason(ctx context.Context, season *database.Season) (*database.Season, error) {
	err := s.db.WithContext(ctx).Create(season).Error
	if err == nil {
		return season, nil
	}

	existing, findErr := s.FindSeason(ctx, season.ExternalID, season.ShowExternalID)
	if findErr == nil {
		return existing, nil
	}
	return nil, errors.NewDatabaseError("create season", err)
}

// BulkCreateEpisodes inserts all episode rows of one season
func (s *Store) BulkCreateEpisodes(ctx context.Context, episodes []database.Episode) error {
	if len(episodes) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&episodes).Error; err != nil {
		return errors.NewDatabaseError("bulk create episodes", err)
	}
	return nil
}

// UpdateSeasonEpisodeIDs sets the season's cached episode-id list
func (s *Store) UpdateSeasonEpisodeIDs(ctx context.Context, seasonExternalID int64, ids string) error {
	err := s.db.WithContext(ctx).
		Model(&database.Season{}).
		Where("external_id = ?", seasonExternalID).
		Update("episode_ids", ids).Error
	if err != nil {
		return errors.NewDatabaseError("update season episode ids", err)
	}
	return nil
}

// ListSeasons returns the locally cached seasons of a show ordered by
// season number
func (s *Store) ListSeasons(ctx context.Context, showExternalID int64) ([]database.Season, error) {
	var seasons []database.Season
	err := s.db.WithContext(ctx).
		Where("show_external_id = ?", showExternalID).
		Order("number").
		Find(&seasons).Error
	if err != nil {
		return nil, errors.NewDatabaseError("list seasons", err)
	}
	return seasons, nil
}

// ListEpisodes returns the locally cached episodes of a season ordered
// by episode number
func (s *Store) ListEpisodes(ctx context.Context, seasonExternalID int64) ([]database.Episode, error) {
	var episodes []database.Episode
	err := s.db.WithContext(ctx).
		Where("season_external_id = ?", seasonExternalID).
		Order("number").
		Find(&episodes).Error
	if err != nil {
		return nil, errors.NewDatabaseError("list episodes", err)
	}
	return episodes, nil
}

// FindEpisode looks up an episode by its external id
func (s *Store) FindEpisode(ctx context.Context, externalID int64) (*database.Episode, error) {
	var episode database.Episode
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&episode).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("episode", fmt.Sprintf("%d", externalID))
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find episode", err)
	}
	return &episode, nil
}
