package repositories

import (
	"errors"
	"time"

	"creerlio_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Константы типов уведомлений
const (
	NotificationTypeConnectionRequest      = "connection_request"
	NotificationTypeConnectionAccepted     = "connection_accepted"
	NotificationTypeConnectionDeclined     = "connection_declined"
	NotificationTypeConnectionDiscontinued = "connection_discontinued"
	NotificationTypeReconnectRequested     = "reconnect_requested"
	NotificationTypeReconnectAccepted      = "reconnect_accepted"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	ListByRecipient(db *gorm.DB, recipientID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(db *gorm.DB, id, recipientID string) error
	MarkAllRead(db *gorm.DB, recipientID string) (int64, error)
	// MarkReadByConnectionRequest retires notifications tied to a request whose
	// state has moved on, so stale action prompts stop surfacing.
	MarkReadByConnectionRequest(db *gorm.DB, connectionRequestID, recipientID string) error
	CountUnread(db *gorm.DB, recipientID string) (int64, error)
	DeleteOldRead(db *gorm.DB, before time.Time) (int64, error)
	DeleteByRecipient(db *gorm.DB, recipientID string) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	err := db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) ListByRecipient(db *gorm.DB, recipientID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkRead(db *gorm.DB, id, recipientID string) error {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND is_read = ?", id, recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(db *gorm.DB, recipientID string) (int64, error) {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) MarkReadByConnectionRequest(db *gorm.DB, connectionRequestID, recipientID string) error {
	now := time.Now()
	return db.Model(&models.Notification{}).
		Where("connection_request_id = ? AND recipient_id = ? AND is_read = ?", connectionRequestID, recipientID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *NotificationRepositoryImpl) CountUnread(db *gorm.DB, recipientID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) DeleteOldRead(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Delete(&models.Notification{}, "is_read = ? AND read_at < ?", true, before)
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteByRecipient(db *gorm.DB, recipientID string) error {
	return db.Delete(&models.Notification{}, "recipient_id = ?", recipientID).Error
}
