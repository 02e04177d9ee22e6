// Package ingest implements the series ingestion pipeline: given an
// external show id it ensures the local catalog cache holds the show,
// all of its seasons, and all canonical episodes, fetching from the
// remote catalog only for data that is missing. The pipeline is safe to
// invoke repeatedly for the same show id; a season once ingested is
// never re-fetched.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/modules/catalogmodule/client"
	"github.com/skoller/showsync/internal/modules/catalogmodule/store"
	"github.com/skoller/showsync/internal/modules/databasemodule"
	"github.com/skoller/showsync/internal/utils"
	"gorm.io/gorm"
)

// creatorRole is the crew role tag that feeds a show's creator names.
const creatorRole = "Creator"

// Pipeline ingests shows from the remote catalog into the local cache.
type Pipeline struct {
	catalog client.Client
	cache   *store.Store
	txm     *databasemodule.TransactionManager
	bus     events.EventBus
}

// NewPipeline creates an ingestion pipeline
func NewPipeline(catalog client.Client, cache *store.Store, txm *databasemodule.TransactionManager, bus events.EventBus) *Pipeline {
	return &Pipeline{
		catalog: catalog,
		cache:   cache,
		txm:     txm,
		bus:     bus,
	}
}

// EnsureSeriesIngested makes the local cache consistent with the remote
// catalog for one show and returns the cached show row.
//
// Any remote failure aborts the call and propagates; writes already
// committed stay in place, and a retry resumes at the per-season skip
// check, so repeated calls converge without duplicating rows.
func (p *Pipeline) EnsureSeriesIngested(ctx context.Context, externalID int64) (*database.Show, error) {
	show, err := p.cache.FindShow(ctx, externalID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	var meta *client.ShowMetadata
	var crew []client.CrewCredit
	if show == nil {
		meta, err = p.catalog.GetShow(ctx, externalID)
		if err != nil {
			return nil, err
		}
		crew, err = p.catalog.GetCrew(ctx, externalID)
		if err != nil {
			return nil, err
		}
	}

	// The season list is fetched unconditionally: seasons may have been
	// added at the source since the show was first ingested.
	seasons, err := p.catalog.GetSeasons(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if show == nil {
		show, err = p.cache.CreateShow(ctx, buildShow(meta, crew, len(seasons)))
		if err != nil {
			return nil, err
		}
		logger.Info("Show ingested", "external_id", externalID, "title", show.Title)
	}

	ingested := 0
	for _, season := range seasons {
		created, err := p.ingestSeason(ctx, season, externalID)
		if err != nil {
			return nil, err
		}
		if created {
			ingested++
		}
	}

	if ingested > 0 && p.bus != nil {
		p.bus.PublishAsync(events.Event{
			Type:    events.EventSeriesIngested,
			Source:  "module:catalog",
			Message: fmt.Sprintf("Ingested %d season(s) of %q", ingested, show.Title),
			Data: map[string]interface{}{
				"show_external_id": externalID,
				"title":            show.Title,
				"seasons_ingested": ingested,
			},
		})
	}

	return show, nil
}

// ingestSeason creates one season and its episodes inside a single
// transaction. An already-cached season is skipped entirely, episode
// fetch included; that skip is the pipeline's idempotency boundary.
func (p *Pipeline) ingestSeason(ctx context.Context, season client.SeasonMetadata, showExternalID int64) (bool, error) {
	_, err := p.cache.FindSeason(ctx, season.ID, showExternalID)
	if err == nil {
		return false, nil
	}
	if !errors.IsNotFound(err) {
		return false, err
	}

	// Fetch outside the transaction so a slow remote call doesn't hold
	// a write transaction open.
	rawEpisodes, err := p.catalog.GetEpisodes(ctx, season.ID)
	if err != nil {
		return false, err
	}

	episodes := make([]database.Episode, 0, len(rawEpisodes))
	ids := make([]string, 0, len(rawEpisodes))
	for _, ep := range rawEpisodes {
		// Entries without an ordinal are specials; they are not part of
		// the canonical season and are dropped.
		if ep.Number == nil {
			continue
		}
		episodes = append(episodes, database.Episode{
			ID:               utils.GenerateUUID(),
			ExternalID:       ep.ID,
			SeasonExternalID: season.ID,
			ShowExternalID:   showExternalID,
			Title:            ep.Name,
			Number:           *ep.Number,
			RuntimeMinutes:   ep.Runtime,
			AirDate:          client.ParseAirDate(ep.AirDate),
			PosterURL:        client.PosterURL(ep.Image),
		})
		ids = append(ids, strconv.FormatInt(ep.ID, 10))
	}

	err = p.txm.WithTransaction(ctx, func(tx *gorm.DB) error {
		txCache := p.cache.WithTx(tx)

		if _, err := txCache.CreateSeason(ctx, &database.Season{
			ID:             utils.GenerateUUID(),
			ExternalID:     season.ID,
			ShowExternalID: showExternalID,
			Number:         season.Number,
		}); err != nil {
			return err
		}
		if err := txCache.BulkCreateEpisodes(ctx, episodes); err != nil {
			return err
		}
		return txCache.UpdateSeasonEpisodeIDs(ctx, season.ID, strings.Join(ids, ","))
	})
	if err != nil {
		return false, err
	}

	logger.Info("Season ingested",
		"show_external_id", showExternalID,
		"season_external_id", season.ID,
		"season_number", season.Number,
		"episodes", len(episodes))
	return true, nil
}

// buildShow maps remote metadata onto a cache row.
func buildShow(meta *client.ShowMetadata, crew []client.CrewCredit, seasonCount int) *database.Show {
	return &database.Show{
		ID:           utils.GenerateUUID(),
		ExternalID:   meta.ID,
		Title:        meta.Name,
		Synopsis:     utils.StripHTML(meta.Summary),
		FirstAirDate: client.ParseAirDate(meta.Premiered),
		Genres:       strings.Join(meta.Genres, ", "),
		SeasonCount:  seasonCount,
		Rating:       meta.Rating.Average,
		PosterURL:    client.PosterURL(meta.Image),
		Creators:     creatorNames(crew),
	}
}

// creatorNames joins the names of crew entries tagged with the creator
// role, falling back to "Unknown" when the catalog lists none.
func creatorNames(crew []client.CrewCredit) string {
	var names []string
	for _, credit := range crew {
		if credit.Type == creatorRole {
			names = append(names, credit.Person.Name)
		}
	}
	if len(names) == 0 {
		return "Unknown"
	}
	return strings.Join(names, ", ")
}
