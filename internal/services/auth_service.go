package services

import (
	"context"
	"errors"

	"creerlio_backend/internal/auth"
	"creerlio_backend/internal/logger"
	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

func NewAuthService(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.DatabaseError("auth", "failed to check email", err)
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError("auth", "failed to hash password", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}

	// Пользователь и профиль создаются в одной транзакции
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		switch req.Role {
		case models.UserRoleTalent:
			return s.profileRepo.CreateTalentProfile(tx, &models.TalentProfile{
				UserID:   user.ID,
				Name:     req.Name,
				IsPublic: false,
			})
		case models.UserRoleBusiness:
			return s.profileRepo.CreateBusinessProfile(tx, &models.BusinessProfile{
				UserID:       user.ID,
				BusinessName: req.BusinessName,
			})
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.DatabaseError("auth", "failed to create user", err)
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), user.Email)
	if err != nil {
		return nil, apperrors.InternalError("auth", "failed to issue token", err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	return &dto.AuthResponse{
		AccessToken: token,
		User:        dto.ToUserDTO(user),
	}, nil
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError("auth", "failed to find user", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, apperrors.NewForbiddenError("account is not active")
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), user.Email)
	if err != nil {
		return nil, apperrors.InternalError("auth", "failed to issue token", err)
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)

	return &dto.AuthResponse{
		AccessToken: token,
		User:        dto.ToUserDTO(user),
	}, nil
}
