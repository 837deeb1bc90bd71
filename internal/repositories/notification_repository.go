package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"uniplug_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidNotificationData = errors.New("invalid notification data")
)

// NotificationRepository is the append-only delivery log. Records are
// immutable once written except for the read flag and deletes.
type NotificationRepository interface {
	Append(notification *models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	MarkAsRead(notificationID string) error
	MarkManyAsRead(notificationIDs []string) error
	MarkAllAsRead(userID string) error
	Delete(id string) error
	DeleteMany(ids []string) error
	DeleteUserNotifications(userID string) error
	DeleteReadOlderThan(olderThan time.Time) (int64, error)
	CountUnread(userID string) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

// NotificationCriteria filters a delivery log listing.
type NotificationCriteria struct {
	Channel    models.Channel `form:"channel"`
	UnreadOnly bool           `form:"unread_only"`
	Page       int            `form:"page" binding:"min=0"`
	PageSize   int            `form:"page_size" binding:"min=0,max=100"`
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Append(notification *models.Notification) error {
	if err := r.validate(notification); err != nil {
		return err
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if criteria.Channel != "" {
		query = query.Where("channel = ?", criteria.Channel)
	}

	var total int64
	if err := query.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Newest first
	query = query.Order("created_at DESC")

	if criteria.PageSize > 0 {
		page := criteria.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(criteria.PageSize).Offset((page - 1) * criteria.PageSize)
	}

	err := query.Find(&notifications).Error
	return notifications, total, err
}

// MarkAsRead is idempotent: re-marking a read record changes nothing.
func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", notificationID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.Error
}

func (r *NotificationRepositoryImpl) MarkManyAsRead(notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	result := r.db.Model(&models.Notification{}).
		Where("id IN ? AND is_read = ?", notificationIDs, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.Error
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) error {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		})
	return result.Error
}

func (r *NotificationRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteMany(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&models.Notification{}).Error
}

func (r *NotificationRepositoryImpl) DeleteUserNotifications(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}

func (r *NotificationRepositoryImpl) DeleteReadOlderThan(olderThan time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, olderThan).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// CountUnread matches the FindUserNotifications unread_only filter exactly;
// badge counts and the unread listing must never disagree.
func (r *NotificationRepositoryImpl) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) validate(notification *models.Notification) error {
	if notification.UserID == "" {
		return errors.New("user ID is required")
	}
	if notification.Type == "" {
		return errors.New("notification type is required")
	}
	if notification.Channel != models.ChannelPush && notification.Channel != models.ChannelEmail {
		return errors.New("invalid notification channel")
	}
	if notification.Title == "" {
		return errors.New("notification title is required")
	}

	if len(notification.Data) > 0 {
		if !json.Valid(notification.Data) {
			return ErrInvalidNotificationData
		}
	}

	return nil
}
