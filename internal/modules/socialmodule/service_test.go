package socialmodule

import (
	"context"
	"fmt"
	"testing"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/services"
	"github.com/skoller/showsync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubCatalog serves EnsureSeriesIngested from the test database
type stubCatalog struct {
	db *gorm.DB
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
	return nil, nil
}

func (s *stubCatalog) ListEpisodes(ctx context.Context, seasonExternalID int64) ([]database.Episode, error) {
	return nil, nil
}

func (s *stubCatalog) FindEpisode(ctx context.Context, externalID int64) (*database.Episode, error) {
	return nil, errors.NewNotFoundError("episode", fmt.Sprintf("%d", externalID))
}

func (s *stubCatalog) SeasonOrders(ctx context.Context, showExternalID int64) ([]services.SeasonOrder, error) {
	return nil, nil
}

func setupSocial(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.User{}, &database.Show{},
		&database.SeriesLike{}, &database.Review{}, &database.Follow{},
		&database.Badge{}, &database.UserBadge{}, &database.Notification{},
	))

	require.NoError(t, db.Create(&database.User{ID: 1, Username: "alice", Email: "alice@example.com"}).Error)
	require.NoError(t, db.Create(&database.User{ID: 2, Username: "bob", Email: "bob@example.com"}).Error)
	require.NoError(t, db.Create(&database.Show{
		ID: utils.GenerateUUID(), ExternalID: 82, Title: "Game of Thrones",
	}).Error)

	return NewService(db, &stubCatalog{db: db}, nil), db
}

func TestLikeSeries(t *testing.T) {
	svc, _ := setupSocial(t)
	ctx := context.Background()

	require.NoError(t, svc.LikeSeries(ctx, 1, 82))

	err := svc.LikeSeries(ctx, 1, 82)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	count, err := svc.CountLikes(ctx, 82)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.UnlikeSeries(ctx, 1, 82))

	err = svc.UnlikeSeries(ctx, 1, 82)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestLikeUnknownSeries(t *testing.T) {
	svc, _ := setupSocial(t)

	err := svc.LikeSeries(context.Background(), 1, 999999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateReview(t *testing.T) {
	svc, _ := setupSocial(t)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, 1, 82, 9, "Winter came.")
	require.NoError(t, err)
	assert.Equal(t, 9, review.Rating)

	// One review per user per series
	_, err = svc.CreateReview(ctx, 1, 82, 7, "Changed my mind")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	reviews, err := svc.ListReviews(ctx, 82)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Winter came.", reviews[0].Body)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	svc, _ := setupSocial(t)
	ctx := context.Background()

	for _, rating := range []int{0, 11, -3} {
		_, err := svc.CreateReview(ctx, 1, 82, rating, "")
		require.Error(t, err)

		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestFollowUser(t *testing.T) {
	svc, _ := setupSocial(t)
	ctx := context.Background()

	require.NoError(t, svc.FollowUser(ctx, 1, 2))

	err := svc.FollowUser(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	// Self-follow is rejected
	err = svc.FollowUser(ctx, 1, 1)
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	// Unknown followee
	err = svc.FollowUser(ctx, 1, 42)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	followers, err := svc.ListFollowers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, uint32(1), followers[0].FollowerID)

	require.NoError(t, svc.UnfollowUser(ctx, 1, 2))
	followers, err = svc.ListFollowers(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, followers)
}
