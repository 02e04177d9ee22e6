package trackingmodule

import (
	"context"
	"fmt"
	"testing"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/modules/databasemodule"
	"github.com/skoller/showsync/internal/services"
	"github.com/skoller/showsync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubCatalog serves catalog reads from the test database and answers
// SeasonOrders from a fixed table.
type stubCatalog struct {
	db     *gorm.DB
	orders []services.SeasonOrder
}

func (s *stubCatalog) EnsureSeriesIngested(ctx context.Context, externalID int64) (*database.Show, error) {
	return s.GetShow(ctx, externalID)
}

func (s *stubCatalog) GetShow(ctx context.Context, externalID int64) (*database.Show, error) {
	var show database.Show
	err := s.db.Where("external_id = ?", externalID).First(&show).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NewNotFoundError("show", fmt.Sprintf("%d", externalID))
	}
	if err != nil {
		return nil, err
	}
	return &show, nil
}

func (s *stubCatalog) ListSeasons(ctx context.Context, showExternalID int64) ([]database.Season, error) {
	var seasons []database.Season
	err := s.db.Where("show_external_id = ?", showExternalID).Order("number").Find(&seasons).Error
	return seasons, err
}

func (s *stubCatalog) ListEpisodes(ctx context.Context, seasonExternalID int64) ([]database.Episode, error) {
	var episodes []database.Episode
	err := s.db.Where("season_external_id = ?", seasonExternalID).Order("number").Find(&episodes).Error
	return episodes, err
}

func (s *stubCatalog) FindEpisode(ctx context.Context, externalID int64) (*database.Episode, error) {
	var episode database.Episode
	err := s.db.Where("external_id = ?", externalID).First(&episode).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NewNotFoundError("episode", fmt.Sprintf("%d", externalID))
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func (s *stubCatalog) SeasonOrders(ctx context.Context, showExternalID int64) ([]services.SeasonOrder, error) {
	return s.orders, nil
}

// setupTracking seeds a two-season show. The catalog reports ten
// episodes in season one and eight in season two, while only seven of
// season two are cached locally; the authoritative total is eighteen.
func setupTracking(t *testing.T) (services.TrackingService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.Show{}, &database.Season{}, &database.Episode{},
		&database.ViewingHistoryEntry{}, &database.SeriesProgress{},
		&database.SeasonProgress{}, &database.WatchedSeries{},
		&database.WatchlistEntry{},
	))

	require.NoError(t, db.Create(&database.Show{
		ID: utils.GenerateUUID(), ExternalID: 82, Title: "Game of Thrones",
	}).Error)
	require.NoError(t, db.Create(&database.Season{
		ID: utils.GenerateUUID(), ExternalID: 101, ShowExternalID: 82, Number: 1,
	}).Error)
	require.NoError(t, db.Create(&database.Season{
		ID: utils.GenerateUUID(), ExternalID: 102, ShowExternalID: 82, Number: 2,
	}).Error)

	for i := 1; i <= 10; i++ {
		require.NoError(t, db.Create(&database.Episode{
			ID: utils.GenerateUUID(), ExternalID: int64(1000 + i),
			SeasonExternalID: 101, ShowExternalID: 82,
			Number: i, RuntimeMinutes: 60,
		}).Error)
	}
	for i := 1; i <= 7; i++ {
		require.NoError(t, db.Create(&database.Episode{
			ID: utils.GenerateUUID(), ExternalID: int64(2000 + i),
			SeasonExternalID: 102, ShowExternalID: 82,
			Number: i, RuntimeMinutes: 55,
		}).Error)
	}

	catalog := &stubCatalog{
		db: db,
		orders: []services.SeasonOrder{
			{SeasonExternalID: 101, Number: 1, EpisodeOrder: 10},
			{SeasonExternalID: 102, Number: 2, EpisodeOrder: 8},
		},
	}
	txm := databasemodule.NewTransactionManager(db)
	return NewService(db, txm, catalog, nil), db
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 0, percentage(5, 0))
	assert.Equal(t, 56, percentage(10, 18))
	assert.Equal(t, 50, percentage(9, 18))
	assert.Equal(t, 100, percentage(18, 18))
	assert.Equal(t, 100, percentage(25, 18))
}

func TestWatchEpisodeRecomputesProgress(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		require.NoError(t, svc.WatchEpisode(ctx, 1, int64(1000+i)))
	}

	var series database.SeriesProgress
	require.NoError(t, db.Where("user_id = ? AND show_external_id = ?", 1, 82).First(&series).Error)
	assert.Equal(t, 56, series.Percentage)

	var season database.SeasonProgress
	require.NoError(t, db.Where("user_id = ? AND season_external_id = ?", 1, 101).First(&season).Error)
	assert.Equal(t, 100, season.Percentage)
}

func TestDuplicateHistoryDoesNotInflateProgress(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	require.NoError(t, svc.WatchEpisode(ctx, 1, 1001))
	require.NoError(t, svc.WatchEpisode(ctx, 1, 1001))

	var historyCount int64
	require.NoError(t, db.Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ?", 1).Count(&historyCount).Error)
	assert.Equal(t, int64(2), historyCount)

	// Two rows, one distinct episode: season one stays at one of ten.
	var season database.SeasonProgress
	require.NoError(t, db.Where("user_id = ? AND season_external_id = ?", 1, 101).First(&season).Error)
	assert.Equal(t, 10, season.Percentage)
}

func TestUnwatchEpisodeRemovesAllHistory(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	require.NoError(t, svc.WatchEpisode(ctx, 1, 1001))
	require.NoError(t, svc.WatchEpisode(ctx, 1, 1001))
	require.NoError(t, svc.UnwatchEpisode(ctx, 1, 1001))

	var historyCount int64
	require.NoError(t, db.Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ?", 1).Count(&historyCount).Error)
	assert.Equal(t, int64(0), historyCount)

	var season database.SeasonProgress
	require.NoError(t, db.Where("user_id = ? AND season_external_id = ?", 1, 101).First(&season).Error)
	assert.Equal(t, 0, season.Percentage)

	err := svc.UnwatchEpisode(ctx, 1, 1001)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestWatchUnknownEpisode(t *testing.T) {
	svc, _ := setupTracking(t)

	err := svc.WatchEpisode(context.Background(), 1, 999999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSeriesProgressZeroDenominator(t *testing.T) {
	svc, db := setupTracking(t)

	// Rewire the catalog to report no seasons at all
	tracking := svc.(*trackingService)
	tracking.catalog.(*stubCatalog).orders = nil

	pct, err := tracking.RecomputeSeriesProgress(context.Background(), 1, 82)
	require.NoError(t, err)
	assert.Equal(t, 0, pct)

	var series database.SeriesProgress
	require.NoError(t, db.Where("user_id = ? AND show_external_id = ?", 1, 82).First(&series).Error)
	assert.Equal(t, 0, series.Percentage)
}

func TestMarkSeriesWatchedCascade(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkSeriesWatched(ctx, 1, 82))

	var marker database.WatchedSeries
	require.NoError(t, db.Where("user_id = ? AND show_external_id = ?", 1, 82).First(&marker).Error)

	var series database.SeriesProgress
	require.NoError(t, db.Where("user_id = ? AND show_external_id = ?", 1, 82).First(&series).Error)
	assert.Equal(t, 100, series.Percentage)

	var seasonCount int64
	require.NoError(t, db.Model(&database.SeasonProgress{}).
		Where("user_id = ? AND percentage = 100", 1).Count(&seasonCount).Error)
	assert.Equal(t, int64(2), seasonCount)

	// One history entry per cached episode
	var historyCount int64
	require.NoError(t, db.Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ?", 1).Count(&historyCount).Error)
	assert.Equal(t, int64(17), historyCount)

	// Marking again is a conflict
	err := svc.MarkSeriesWatched(ctx, 1, 82)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestUnmarkSeriesWatchedTearsDownCascade(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkSeriesWatched(ctx, 1, 82))
	require.NoError(t, svc.UnmarkSeriesWatched(ctx, 1, 82))

	for _, model := range []interface{}{
		&database.WatchedSeries{}, &database.SeriesProgress{},
		&database.SeasonProgress{}, &database.ViewingHistoryEntry{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("user_id = ?", 1).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}

	err := svc.UnmarkSeriesWatched(ctx, 1, 82)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUnmarkDoesNotTouchOtherUsers(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkSeriesWatched(ctx, 1, 82))
	require.NoError(t, svc.MarkSeriesWatched(ctx, 2, 82))
	require.NoError(t, svc.UnmarkSeriesWatched(ctx, 1, 82))

	var historyCount int64
	require.NoError(t, db.Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ?", 2).Count(&historyCount).Error)
	assert.Equal(t, int64(17), historyCount)
}

func TestMarkSeriesWatchedEmptyCatalog(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	// A show with no cached seasons still gets the marker and the 100%
	// series row.
	require.NoError(t, db.Create(&database.Show{
		ID: utils.GenerateUUID(), ExternalID: 7, Title: "Empty",
	}).Error)

	require.NoError(t, svc.MarkSeriesWatched(ctx, 1, 7))

	var series database.SeriesProgress
	require.NoError(t, db.Where("user_id = ? AND show_external_id = ?", 1, 7).First(&series).Error)
	assert.Equal(t, 100, series.Percentage)

	var historyCount int64
	require.NoError(t, db.Model(&database.ViewingHistoryEntry{}).
		Where("user_id = ? AND show_external_id = ?", 1, 7).Count(&historyCount).Error)
	assert.Equal(t, int64(0), historyCount)
}

func TestWatchlist(t *testing.T) {
	svc, db := setupTracking(t)
	ctx := context.Background()

	require.NoError(t, svc.AddToWatchlist(ctx, 1, 82))

	err := svc.AddToWatchlist(ctx, 1, 82)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	var count int64
	require.NoError(t, db.Model(&database.WatchlistEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.RemoveFromWatchlist(ctx, 1, 82))

	err = svc.RemoveFromWatchlist(ctx, 1, 82)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCounts(t *testing.T) {
	svc, _ := setupTracking(t)
	ctx := context.Background()

	require.NoError(t, svc.WatchEpisode(ctx, 1, 1001))
	require.NoError(t, svc.WatchEpisode(ctx, 1, 1001))
	require.NoError(t, svc.WatchEpisode(ctx, 1, 1002))

	episodes, err := svc.CountWatchedEpisodes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), episodes)

	series, err := svc.CountCompletedSeries(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), series)

	require.NoError(t, svc.MarkSeriesWatched(ctx, 2, 82))
	series, err = svc.CountCompletedSeries(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), series)
}
