package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"creerlio_backend/internal/logger"
	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConnectionEvent описывает событие перехода для best-effort эмита
type ConnectionEvent struct {
	RecipientProfileID  string
	RecipientRole       models.Party
	ConnectionRequestID string
	Type                string
	Title               string
	Message             string
	Metadata            map[string]any
}

type NotificationService interface {
	// Emit вставляет уведомление best-effort: любая ошибка логируется и
	// глотается, переход ConnectionRequest от нее не зависит.
	Emit(ctx context.Context, db *gorm.DB, event ConnectionEvent)

	GetNotifications(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, query dto.ListNotificationsQuery) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, notificationID string) error
	MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string, role models.UserRole) (int64, error)
	GetUnreadCount(ctx context.Context, db *gorm.DB, userID string, role models.UserRole) (int64, error)

	// RetireForConnectionRequest гасит устаревшие призывы к действию по
	// запросу, чье состояние уже изменилось. Тоже best-effort.
	RetireForConnectionRequest(ctx context.Context, db *gorm.DB, connectionRequestID, recipientID string)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	profileRepo      repositories.ProfileRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, profileRepo repositories.ProfileRepository) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
	}
}

// resolveRecipientID - уведомления ключуются id профиля, не id пользователя
func (s *notificationService) resolveRecipientID(db *gorm.DB, userID string, role models.UserRole) (string, error) {
	switch role {
	case models.UserRoleTalent:
		profile, err := s.profileRepo.FindTalentByUserID(db, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrTalentProfileNotFound) {
				return "", apperrors.ErrProfileNotFound
			}
			return "", apperrors.DatabaseError("notification", "failed to resolve recipient", err)
		}
		return profile.ID, nil
	case models.UserRoleBusiness:
		profile, err := s.profileRepo.FindBusinessByUserID(db, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrBusinessProfileNotFound) {
				return "", apperrors.ErrProfileNotFound
			}
			return "", apperrors.DatabaseError("notification", "failed to resolve recipient", err)
		}
		return profile.ID, nil
	}
	return "", apperrors.ErrProfileNotFound
}

func (s *notificationService) Emit(ctx context.Context, db *gorm.DB, event ConnectionEvent) {
	var metadata datatypes.JSON
	if event.Metadata != nil {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			logger.CtxWarn(ctx, "notification metadata not serializable, emitting without it",
				"type", event.Type, "error", err.Error())
		} else {
			metadata = datatypes.JSON(data)
		}
	}

	notification := &models.Notification{
		RecipientID:         event.RecipientProfileID,
		RecipientRole:       event.RecipientRole,
		ConnectionRequestID: event.ConnectionRequestID,
		NotificationType:    event.Type,
		Title:               event.Title,
		Message:             event.Message,
		Metadata:            metadata,
	}

	if err := s.notificationRepo.Create(db, notification); err != nil {
		// Схема уведомлений может отставать от основной (таблица еще не
		// смигрирована) - это штатный случай, а не падение.
		if isUndefinedTableError(err) {
			logger.CtxWarn(ctx, "notifications table missing, event dropped",
				"type", event.Type, "connection_request_id", event.ConnectionRequestID)
			return
		}
		logger.CtxWarn(ctx, "failed to emit notification",
			"type", event.Type,
			"recipient_id", event.RecipientProfileID,
			"error", err.Error())
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, query dto.ListNotificationsQuery) (*dto.NotificationListResponse, error) {
	recipientID, err := s.resolveRecipientID(db, userID, role)
	if err != nil {
		return nil, err
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	notifications, total, err := s.notificationRepo.ListByRecipient(db, recipientID, query.UnreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.DatabaseError("notification", "failed to list notifications", err)
	}

	unread, err := s.notificationRepo.CountUnread(db, recipientID)
	if err != nil {
		return nil, apperrors.DatabaseError("notification", "failed to count unread", err)
	}

	items := make([]dto.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationDTO(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, db *gorm.DB, userID string, role models.UserRole, notificationID string) error {
	recipientID, err := s.resolveRecipientID(db, userID, role)
	if err != nil {
		return err
	}
	err = s.notificationRepo.MarkRead(db, notificationID, recipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.DatabaseError("notification", "failed to mark as read", err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, db *gorm.DB, userID string, role models.UserRole) (int64, error) {
	recipientID, err := s.resolveRecipientID(db, userID, role)
	if err != nil {
		return 0, err
	}
	count, err := s.notificationRepo.MarkAllRead(db, recipientID)
	if err != nil {
		return 0, apperrors.DatabaseError("notification", "failed to mark all as read", err)
	}
	return count, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, db *gorm.DB, userID string, role models.UserRole) (int64, error) {
	recipientID, err := s.resolveRecipientID(db, userID, role)
	if err != nil {
		return 0, err
	}
	count, err := s.notificationRepo.CountUnread(db, recipientID)
	if err != nil {
		return 0, apperrors.DatabaseError("notification", "failed to count unread", err)
	}
	return count, nil
}

func (s *notificationService) RetireForConnectionRequest(ctx context.Context, db *gorm.DB, connectionRequestID, recipientID string) {
	err := s.notificationRepo.MarkReadByConnectionRequest(db, connectionRequestID, recipientID)
	if err != nil && !isUndefinedTableError(err) {
		logger.CtxWarn(ctx, "failed to retire stale notifications",
			"connection_request_id", connectionRequestID,
			"error", err.Error())
	}
}

// isUndefinedTableError распознает постгресовый 42P01 и его sqlite-аналог
func isUndefinedTableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such table")
}

func toNotificationDTO(n *models.Notification) dto.NotificationDTO {
	var metadata map[string]any
	if len(n.Metadata) > 0 {
		_ = json.Unmarshal(n.Metadata, &metadata)
	}
	return dto.NotificationDTO{
		ID:                  n.ID,
		RecipientRole:       n.RecipientRole,
		ConnectionRequestID: n.ConnectionRequestID,
		Type:                n.NotificationType,
		Title:               n.Title,
		Message:             n.Message,
		Metadata:            metadata,
		IsRead:              n.IsRead,
		ReadAt:              n.ReadAt,
		CreatedAt:           n.CreatedAt,
	}
}
