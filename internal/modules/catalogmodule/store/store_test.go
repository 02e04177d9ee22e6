package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.Show{}, &database.Season{}, &database.Episode{}))
	return NewStore(db), db
}

func TestFindShowNotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.FindShow(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateShowConflictReturnsExisting(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	first, err := s.CreateShow(ctx, &database.Show{
		ID:         utils.GenerateUUID(),
		ExternalID: 82,
		Title:      "Game of Thrones",
	})
	require.NoError(t, err)

	// A second create on the same external id loses the race and gets
	// the winner's row back.
	second, err := s.CreateShow(ctx, &database.Show{
		ID:         utils.GenerateUUID(),
		ExternalID: 82,
		Title:      "Duplicate",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Game of Thrones", second.Title)
}

func TestCreateSeasonConflictReturnsExisting(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	first, err := s.CreateSeason(ctx, &database.Season{
		ID:             utils.GenerateUUID(),
		ExternalID:     101,
		ShowExternalID: 82,
		Number:         1,
	})
	require.NoError(t, err)

	second, err := s.CreateSeason(ctx, &database.Season{
		ID:             utils.GenerateUUID(),
		ExternalID:     101,
		ShowExternalID: 82,
		Number:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpdateSeasonEpisodeIDs(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	_, err := s.CreateSeason(ctx, &database.Season{
		ID:             utils.GenerateUUID(),
		ExternalID:     101,
		ShowExternalID: 82,
		Number:         1,
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdateSeasonEpisodeIDs(ctx, 101, "1001,1002,1003"))

	var season database.Season
	require.NoError(t, db.Where("external_id = ?", 101).First(&season).Error)
	assert.Equal(t, "1001,1002,1003", season.EpisodeIDs)
}

func TestListSeasonsOrdered(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	for _, n := range []int{3, 1, 2} {
		_, err := s.CreateSeason(ctx, &database.Season{
			ID:             utils.GenerateUUID(),
			ExternalID:     int64(100 + n),
			ShowExternalID: 82,
			Number:         n,
		})
		require.NoError(t, err)
	}

	seasons, err := s.ListSeasons(ctx, 82)
	require.NoError(t, err)
	require.Len(t, seasons, 3)
	assert.Equal(t, 1, seasons[0].Number)
	assert.Equal(t, 3, seasons[2].Number)
}

// TestFindShowDatabaseFailure drives the store against a mocked
// connection to exercise the non-not-found error path.
func TestFindShowDatabaseFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	s := NewStore(db)
	_, err = s.FindShow(context.Background(), 82)
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DATABASE_ERROR", appErr.Code)
}
