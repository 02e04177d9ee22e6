package socialmodule

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skoller/showsync/internal/database"
	"github.com/skoller/showsync/internal/errors"
	"github.com/skoller/showsync/internal/events"
	"github.com/skoller/showsync/internal/logger"
	"github.com/skoller/showsync/internal/utils"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationFollowed     = "followed"
	NotificationBadgeAwarded = "badge_awarded"
	NotificationReviewPosted = "review_posted"
)

// Notifier turns social events into per-user notification rows. A
// follow notifies the followee, a badge notifies its holder, and a
// review notifies every follower of the reviewer.
type Notifier struct {
	db *gorm.DB
}

// NewNotifier creates a notifier
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// Subscribe hooks the notifier into the event bus
func (n *Notifier) Subscribe(bus events.EventBus) error {
	filter := events.EventFilter{
		Types: []events.EventType{
			events.EventUserFollowed,
			events.EventBadgeAwarded,
			events.EventReviewCreated,
		},
	}
	_, err := bus.Subscribe(filter, func(event events.Event) error {
		if err := n.handle(context.Background(), event); err != nil {
			logger.Warn("Notification delivery failed", "event_type", event.Type, "error", err)
		}
		return nil
	})
	return err
}

func (n *Notifier) handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventUserFollowed:
		followee, ok := dataUint32(event.Data, "followee_id")
		if !ok {
			return nil
		}
		follower, _ := dataUint32(event.Data, "follower_id")
		return n.Create(ctx, followee, NotificationFollowed,
			fmt.Sprintf("User %d started following you", follower), event.Data)

	case events.EventBadgeAwarded:
		userID, ok := dataUint32(event.Data, "user_id")
		if !ok {
			return nil
		}
		return n.Create(ctx, userID, NotificationBadgeAwarded, event.Message, event.Data)

	case events.EventReviewCreated:
		reviewer, ok := dataUint32(event.Data, "user_id")
		if !ok {
			return nil
		}
		var follows []database.Follow
		if err := n.db.WithContext(ctx).Where("followee_id = ?", reviewer).Find(&follows).Error; err != nil {
			return errors.NewDatabaseError("list followers", err)
		}
		for _, follow := range follows {
			if err := n.Create(ctx, follow.FollowerID, NotificationReviewPosted, event.Message, event.Data); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// Create stores one notification row
func (n *Notifier) Create(ctx context.Context, userID uint32, notificationType, message string, data map[string]interface{}) error {
	payload := ""
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err == nil {
			payload = string(raw)
		}
	}

	notification := database.Notification{
		ID:      utils.GenerateUUID(),
		UserID:  userID,
		Type:    notificationType,
		Message: message,
		Data:    payload,
	}
	if err := n.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return errors.NewDatabaseError("create notification", err)
	}
	return nil
}

// List returns a user's notifications, newest first. unreadOnly narrows
// the result to unread rows.
func (n *Notifier) List(ctx context.Context, userID uint32, unreadOnly bool) ([]database.Notification, error) {
	query := n.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var notifications []database.Notification
	if err := query.Order("created_at desc").Find(&notifications).Error; err != nil {
		return nil, errors.NewDatabaseError("list notifications", err)
	}
	return notifications, nil
}

// MarkRead flags one notification as read
func (n *Notifier) MarkRead(ctx context.Context, userID uint32, notificationID string) error {
	result := n.db.WithContext(ctx).
		Model(&database.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return errors.NewDatabaseError("mark notification read", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("notification", notificationID)
	}
	return nil
}

// MarkAllRead flags every unread notification of a user as read
func (n *Notifier) MarkAllRead(ctx context.Context, userID uint32) error {
	err := n.db.WithContext(ctx).
		Model(&database.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return errors.NewDatabaseError("mark notifications read", err)
	}
	return nil
}

// dataUint32 reads a numeric field out of an event payload
func dataUint32(data map[string]interface{}, key string) (uint32, bool) {
	raw, ok := data[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case uint32:
		return v, true
	case int:
		return uint32(v), true
	case int64:
		return uint32(v), true
	case float64:
		return uint32(v), true
	default:
		return 0, false
	}
}
