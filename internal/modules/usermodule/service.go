package usermodule

import (
	"context"
	"fmt"
	"strings"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/services"
	"gorm.io/gorm"
)

// userService implements services.UserService
type userService struct {
	db  *gorm.DB
	bus events.EventBus
}

// NewService creates the user service
func NewService(db *gorm.DB, bus events.EventBus) services.UserService {
	return &userService{db: db, bus: bus}
}

// CreateUser creates an account. Usernames and emails are unique; a
// duplicate of either surfaces as a conflict.
func (s *userService) CreateUser(ctx context.Context, username, email string) (*database.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, errors.NewValidationError("username is required", "username")
	}
	if email == "" {
		return nil, errors.NewValidationError("email is required", "email")
	}

	user := database.User{
		Username: username,
		Email:    email,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.NewConflictError("username or email already taken", map[string]interface{}{
			"username": username,
		})
	}

	if s.bus != nil {
		s.bus.PublishAsync(events.Event{
			Type:    events.EventUserCreated,
			Source:  "module:users",
			Message: fmt.Sprintf("User %q created", username),
			Data: map[string]interface{}{
				"user_id":  user.ID,
				"username": username,
			},
		})
	}
	return &user, nil
}

// GetUser returns a user by id
func (s *userService) GetUser(ctx context.Context, id uint32) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.NewNotFoundError("user", fmt.Sprintf("%d", id))
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find user", err)
	}
	return &user, nil
}

// ListUsers returns all users ordered by creation
func (s *userService) ListUsers(ctx context.Context) ([]database.User, error) {
	var users []database.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, errors.NewDatabaseError("list users", err)
	}
	return users, nil
}

// DeleteUser removes an account. Watch state and social rows keep
// their user_id and are left in place.
func (s *userService) DeleteUser(ctx context.Context, id uint32) error {
	result := s.db.WithContext(ctx).Delete(&database.User{}, id)
	if result.Error != nil {
		return errors.NewDatabaseError("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user", fmt.Sprintf("%d", id))
	}
	return nil
}
