package socialmodule

import (
	"context"
	"fmt"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/services"
	"github.com/skoller/showsync/internal/utils"
	"gorm.io/gorm"
)

// Service implements likes, reviews, and follows. Social rows reference
// shows by external id; a like or review requires the show to be in the
// local cache so the catalog is ingested on first touch.
type Service struct {
	db      *gorm.DB
	catalog services.CatalogService
	bus     events.EventBus
}

// NewService creates the social service
func NewService(db *gorm.DB, catalog services.CatalogService, bus events.EventBus) *Service {
	return &Service{db: db, catalog: catalog, bus: bus}
}

// LikeSeries records a like. Liking twice is a conflict.
func (s *Service) LikeSeries(ctx context.Context, userID uint32, seriesExternalID int64) error {
	show, err := s.catalog.EnsureSeriesIngested(ctx, seriesExternalID)
	if err != nil {
		return err
	}

	like := database.SeriesLike{
		UserID:         userID,
		ShowExternalID: seriesExternalID,
	}
	if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
		return errors.NewConflictError("series already liked", map[string]interface{}{
			"show_external_id": seriesExternalID,
		})
	}

	s.publish(events.EventSeriesLiked,
		fmt.Sprintf("%q liked", show.Title),
		map[string]interface{}{
			"user_id":          userID,
			"show_external_id": seriesExternalID,
			"title":            show.Title,
		})
	return nil
}

// UnlikeSeries removes a like
func (s *Service) UnlikeSeries(ctx context.Context, userID uint32, seriesExternalID int64) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND show_external_id = ?", userID, seriesExternalID).
		Delete(&database.SeriesLike{})
	if result.Error != nil {
		return errors.NewDatabaseError("delete like", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("like", fmt.Sprintf("%d", seriesExternalID))
	}
	return nil
}

// CountLikes returns the number of likes a series has
func (s *Service) CountLikes(ctx context.Context, seriesExternalID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&database.SeriesLike{}).
		Where("show_external_id = ?", seriesExternalID).
		Count(&count).Error
	if err != nil {
		return 0, errors.NewDatabaseError("count likes", err)
	}
	return count, nil
}

// CreateReview stores a user's review of a series. One review per user
// per series; ratings run 1 through 10.
func (s *Service) CreateReview(ctx context.Context, userID uint32, seriesExternalID int64, rating int, body string) (*database.Review, error) {
	if rating < 1 || rating > 10 {
		return nil, errors.NewValidationError("rating must be between 1 and 10", "rating")
	}

	show, err := s.catalog.EnsureSeriesIngested(ctx, seriesExternalID)
	if err != nil {
		return nil, err
	}

	review := database.Review{
		ID:             utils.GenerateUUID(),
		UserID:         userID,
		ShowExternalID: seriesExternalID,
		Rating:         rating,
		Body:           body,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, errors.NewConflictError("series already reviewed", map[string]interface{}{
			"show_external_id": seriesExternalID,
		})
	}

	s.publish(events.EventReviewCreated,
		fmt.Sprintf("%q reviewed", show.Title),
		map[string]interface{}{
			"user_id":          userID,
			"show_external_id": seriesExternalID,
			"rating":           rating,
			"title":            show.Title,
		})
	return &review, nil
}

// ListReviews returns all reviews of a series, newest first
func (s *Service) ListReviews(ctx context.Context, seriesExternalID int64) ([]database.Review, error) {
	var reviews []database.Review
	err := s.db.WithContext(ctx).
		Where("show_external_id = ?", seriesExternalID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, errors.NewDatabaseError("list reviews", err)
	}
	return reviews, nil
}

// DeleteReview removes the user's review of a series
func (s *Service) DeleteReview(ctx context.Context, userID uint32, seriesExternalID int64) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND show_external_id = ?", userID, seriesExternalID).
		Delete(&database.Review{})
	if result.Error != nil {
		return errors.NewDatabaseError("delete review", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("review", fmt.Sprintf("%d", seriesExternalID))
	}
	return nil
}

// FollowUser creates a follow edge. Self-follows are rejected and a
// duplicate edge is a conflict.
func (s *Service) FollowUser(ctx context.Context, followerID, followeeID uint32) error {
	if followerID == followeeID {
		return errors.NewValidationError("cannot follow yourself", "followee_id")
	}

	var followee database.User
	if err := s.db.WithContext(ctx).First(&followee, followeeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("user", fmt.Sprintf("%d", followeeID))
		}
		return errors.NewDatabaseError("find user", err)
	}

	follow := database.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		return errors.NewConflictError("already following", map[string]interface{}{
			"followee_id": followeeID,
		})
	}

	s.publish(events.EventUserFollowed,
		fmt.Sprintf("User %d followed user %d", followerID, followeeID),
		map[string]interface{}{
			"follower_id": followerID,
			"followee_id": followeeID,
		})
	return nil
}

// UnfollowUser removes a follow edge
func (s *Service) UnfollowUser(ctx context.Context, followerID, followeeID uint32) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&database.Follow{})
	if result.Error != nil {
		return errors.NewDatabaseError("delete follow", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("follow", fmt.Sprintf("%d", followeeID))
	}
	return nil
}

// ListFollowers returns the ids of users following the given user
func (s *Service) ListFollowers(ctx context.Context, userID uint32) ([]database.Follow, error) {
	var follows []database.Follow
	err := s.db.WithContext(ctx).
		Where("followee_id = ?", userID).
		Find(&follows).Error
	if err != nil {
		return nil, errors.NewDatabaseError("list followers", err)
	}
	return follows, nil
}

// ListFollowing returns the follow edges originating from the user
func (s *Service) ListFollowing(ctx context.Context, userID uint32) ([]database.Follow, error) {
	var follows []database.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Find(&follows).Error
	if err != nil {
		return nil, errors.NewDatabaseError("list following", err)
	}
	return follows, nil
}

func (s *Service) publish(eventType events.EventType, message string, data map[string]interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.PublishAsync(events.Event{
		Type:    eventType,
		Source:  "module:social",
		Message: message,
		Data:    data,
	})
}
