package services

import (
	"encoding/json"

	"uniplug_backend/internal/models"
	"uniplug_backend/internal/repositories"
	"uniplug_backend/internal/services/dto"
	"uniplug_backend/pkg/apperrors"
)

// NotificationService is the read/mutate surface over the delivery log:
// badge counts, the notification center listing, mark-read and deletes.
type NotificationService interface {
	GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkMultipleAsRead(userID string, notificationIDs []string) error
	MarkAllAsRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	DeleteMany(userID string, notificationIDs []string) error
	DeleteUserNotifications(userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) GetUserNotifications(userID string, criteria dto.NotificationCriteria) (*dto.NotificationListResponse, error) {
	repoCriteria := repositories.NotificationCriteria{
		Channel:    models.Channel(criteria.Channel),
		UnreadOnly: criteria.UnreadOnly,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, repoCriteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
	}, nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	if err := s.authorizeOwnership(userID, notificationID); err != nil {
		return err
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkMultipleAsRead(userID string, notificationIDs []string) error {
	for _, notificationID := range notificationIDs {
		if err := s.authorizeOwnership(userID, notificationID); err != nil {
			return err
		}
	}
	return s.notificationRepo.MarkManyAsRead(notificationIDs)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	if err := s.authorizeOwnership(userID, notificationID); err != nil {
		return err
	}
	return s.notificationRepo.Delete(notificationID)
}

func (s *notificationService) DeleteMany(userID string, notificationIDs []string) error {
	for _, notificationID := range notificationIDs {
		if err := s.authorizeOwnership(userID, notificationID); err != nil {
			return err
		}
	}
	return s.notificationRepo.DeleteMany(notificationIDs)
}

func (s *notificationService) DeleteUserNotifications(userID string) error {
	return s.notificationRepo.DeleteUserNotifications(userID)
}

// authorizeOwnership rejects access to another user's records.
func (s *notificationService) authorizeOwnership(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("Access denied")
	}
	return nil
}

func buildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Channel:   notification.Channel,
		Title:     notification.Title,
		Body:      notification.Body,
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}
