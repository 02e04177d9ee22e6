package catalogmodule

import (
	"context"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/modules/catalogmodule/client"
	"github.com/skoller/showsync/internal/modules/catalogmodule/ingest"
	"github.com/skoller/showsync/internal/modules/catalogmodule/store"
	"github.com/skoller/showsync/internal/services"
)

// catalogService implements services.CatalogService on top of the
// ingestion pipeline, the local cache, and the remote client.
type catalogService struct {
	pipeline *ingest.Pipeline
	cache    *store.Store
	catalog  client.Client
}

// NewService creates the catalog service
func NewService(pipeline *ingest.Pipeline, cache *store.Store, catalog client.Client) services.CatalogService {
	return &catalogService{
		pipeline: pipeline,
		cache:    cache,
		catalog:  catalog,
	}
}

func (s *catalogService) EnsureSeriesIngested(ctx context.Context, externalID int64) (*database.Show, error) {
	return s.pipeline.EnsureSeriesIngested(ctx, externalID)
}

func (s *catalogService) GetShow(ctx context.Context, externalID int64) (*database.Show, error) {
	return s.cache.FindShow(ctx, externalID)
}

func (s *catalogService) ListSeasons(ctx context.Context, showExternalID int64) ([]database.Season, error) {
	return s.cache.ListSeasons(ctx, showExternalID)
}

func (s *catalogService) ListEpisodes(ctx context.Context, seasonExternalID int64) ([]database.Episode, error) {
	return s.cache.ListEpisodes(ctx, seasonExternalID)
}

func (s *catalogService) FindEpisode(ctx context.Context, externalID int64) (*database.Episode, error) {
	return s.cache.FindEpisode(ctx, externalID)
}

// SeasonOrders returns the remote catalog's per-season episode counts.
// Seasons the catalog has not finalized (null episodeOrder) fall back
// to the locally cached episode count so in-progress seasons still
// contribute a denominator.
func (s *catalogService) SeasonOrders(ctx context.Context, showExternalID int64) ([]services.SeasonOrder, error) {
	seasons, err := s.catalog.GetSeasons(ctx, showExternalID)
	if err != nil {
		return nil, err
	}

	orders := make([]services.SeasonOrder, 0, len(seasons))
	for _, season := range seasons {
		order := services.SeasonOrder{
			SeasonExternalID: season.ID,
			Number:           season.Number,
		}
		if season.EpisodeOrder != nil {
			order.EpisodeOrder = *season.EpisodeOrder
		} else {
			cached, err := s.cache.ListEpisodes(ctx, season.ID)
			if err != nil {
				return nil, err
			}
			order.EpisodeOrder = len(cached)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
