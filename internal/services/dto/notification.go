package dto

import (
	"time"

	"creerlio_backend/internal/models"
)

// ListNotificationsQuery - фильтры списка уведомлений
type ListNotificationsQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page" binding:"omitempty,min=1"`
	Limit      int  `form:"limit" binding:"omitempty,min=1,max=100"`
}

// NotificationDTO - уведомление получателя
type NotificationDTO struct {
	ID                  string         `json:"id"`
	RecipientRole       models.Party   `json:"recipient_role"`
	ConnectionRequestID string         `json:"connection_request_id,omitempty"`
	Type                string         `json:"type"`
	Title               string         `json:"title"`
	Message             string         `json:"message"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	IsRead              bool           `json:"is_read"`
	ReadAt              *time.Time     `json:"read_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

// NotificationListResponse - страница уведомлений
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	Total         int64             `json:"total"`
	UnreadCount   int64             `json:"unread_count"`
	Page          int               `json:"page"`
	Limit         int               `json:"limit"`
}
