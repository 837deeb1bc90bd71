package dto

import (
	"time"

	"uniplug_backend/internal/models"
)

// DeliveryOutcome summarizes one dispatch attempt across channels. It is
// informational: callers may log it or surface a warning, but must never
// fail their own operation because of it.
type DeliveryOutcome struct {
	PushSent   int   `json:"push_sent"`
	PushFailed int   `json:"push_failed"`
	EmailSent  bool  `json:"email_sent"`
	EmailErr   error `json:"-"`
}

type NotificationResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      models.EventType       `json:"type"`
	Channel   models.Channel         `json:"channel"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
}

type NotificationCriteria struct {
	Channel    string `form:"channel" validate:"omitempty,is-channel"`
	UnreadOnly bool   `form:"unread_only"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" validate:"omitempty,max=100"`
}

type MarkMultipleReadRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1"`
}

type DeleteManyRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1"`
}

// DispatchRequest is the admin/internal event entry point payload.
type DispatchRequest struct {
	RecipientID string                 `json:"recipient_id" validate:"required"`
	EventType   string                 `json:"event_type" validate:"required"`
	EventData   map[string]interface{} `json:"event_data"`
}
