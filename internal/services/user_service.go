package services

import (
	"context"
	"errors"

	"creerlio_backend/internal/logger"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetUser(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDTO, error)
	// DeleteUserCascade - единственный путь физического удаления строк
	// ConnectionRequest и PortfolioSnapshot: админский каскад по аккаунту.
	DeleteUserCascade(ctx context.Context, db *gorm.DB, adminID, targetUserID string) error
}

type userService struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	connectionRepo   repositories.ConnectionRepository
	snapshotRepo     repositories.SnapshotRepository
	notificationRepo repositories.NotificationRepository
	talentBankRepo   repositories.TalentBankRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	connectionRepo repositories.ConnectionRepository,
	snapshotRepo repositories.SnapshotRepository,
	notificationRepo repositories.NotificationRepository,
	talentBankRepo repositories.TalentBankRepository,
) UserService {
	return &userService{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		connectionRepo:   connectionRepo,
		snapshotRepo:     snapshotRepo,
		notificationRepo: notificationRepo,
		talentBankRepo:   talentBankRepo,
	}
}

func (s *userService) GetUser(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError("user", "failed to find user", err)
	}
	result := dto.ToUserDTO(user)
	return &result, nil
}

func (s *userService) DeleteUserCascade(ctx context.Context, db *gorm.DB, adminID, targetUserID string) error {
	if adminID == targetUserID {
		return apperrors.ErrCannotModifySelf
	}

	user, err := s.userRepo.FindByID(db, targetUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.DatabaseError("user", "failed to find user", err)
	}

	// Собираем id профилей до удаления: связи и гранты ключуются ими
	var profileIDs []string
	if talent, err := s.profileRepo.FindTalentByUserID(db, targetUserID); err == nil {
		profileIDs = append(profileIDs, talent.ID)
	}
	if business, err := s.profileRepo.FindBusinessByUserID(db, targetUserID); err == nil {
		profileIDs = append(profileIDs, business.ID)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, profileID := range profileIDs {
			if err := s.connectionRepo.DeleteByParticipant(tx, profileID); err != nil {
				return err
			}
			if err := s.connectionRepo.DeleteGrantsByParticipant(tx, profileID); err != nil {
				return err
			}
			if err := s.notificationRepo.DeleteByRecipient(tx, profileID); err != nil {
				return err
			}
		}
		if err := s.snapshotRepo.DeleteByUserID(tx, targetUserID); err != nil {
			return err
		}
		if err := s.talentBankRepo.DeleteByUserID(tx, targetUserID); err != nil {
			return err
		}
		if err := s.profileRepo.DeleteProfilesByUserID(tx, targetUserID); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, targetUserID)
	})
	if err != nil {
		return apperrors.DatabaseError("user", "failed to delete account", err)
	}

	logger.CtxWarn(ctx, "account deleted by admin",
		"admin_id", adminID,
		"user_id", targetUserID,
		"email", user.Email)
	return nil
}
