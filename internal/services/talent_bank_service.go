package services

import (
	"context"
	"errors"
	"time"

	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/internal/storage"
	"creerlio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TalentBankService управляет банком медиа-файлов таланта. Файлы попадают
// в storage отдельно, банк хранит метаданные и выдает подписанные URL.
type TalentBankService interface {
	CreateItem(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateTalentBankItemRequest) (*dto.TalentBankItemDTO, error)
	ListItems(ctx context.Context, db *gorm.DB, userID string) ([]dto.TalentBankItemDTO, error)
	DeleteItem(ctx context.Context, db *gorm.DB, userID string, itemID int64) error
}

type talentBankService struct {
	talentBankRepo repositories.TalentBankRepository
	profileRepo    repositories.ProfileRepository
	storage        storage.Storage
	urlExpiry      time.Duration
}

func NewTalentBankService(
	talentBankRepo repositories.TalentBankRepository,
	profileRepo repositories.ProfileRepository,
	store storage.Storage,
	urlExpirySeconds int,
) TalentBankService {
	if urlExpirySeconds <= 0 {
		urlExpirySeconds = 3600
	}
	return &talentBankService{
		talentBankRepo: talentBankRepo,
		profileRepo:    profileRepo,
		storage:        store,
		urlExpiry:      time.Duration(urlExpirySeconds) * time.Second,
	}
}

func (s *talentBankService) CreateItem(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateTalentBankItemRequest) (*dto.TalentBankItemDTO, error) {
	profile, err := s.profileRepo.FindTalentByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("talent_bank", "failed to resolve talent profile", err)
	}

	item := &models.TalentBankItem{
		TalentID: profile.ID,
		UserID:   userID,
		Label:    req.Label,
		FilePath: req.FilePath,
		FileType: req.FileType,
		MimeType: req.MimeType,
		Size:     req.Size,
	}
	if err := s.talentBankRepo.Create(db, item); err != nil {
		return nil, apperrors.DatabaseError("talent_bank", "failed to create item", err)
	}

	result := s.toDTO(ctx, item)
	return &result, nil
}

func (s *talentBankService) ListItems(ctx context.Context, db *gorm.DB, userID string) ([]dto.TalentBankItemDTO, error) {
	profile, err := s.profileRepo.FindTalentByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("talent_bank", "failed to resolve talent profile", err)
	}

	items, err := s.talentBankRepo.ListByTalent(db, profile.ID)
	if err != nil {
		return nil, apperrors.DatabaseError("talent_bank", "failed to list items", err)
	}

	result := make([]dto.TalentBankItemDTO, 0, len(items))
	for i := range items {
		result = append(result, s.toDTO(ctx, &items[i]))
	}
	return result, nil
}

func (s *talentBankService) DeleteItem(ctx context.Context, db *gorm.DB, userID string, itemID int64) error {
	err := s.talentBankRepo.Delete(db, itemID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentBankItemNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.DatabaseError("talent_bank", "failed to delete item", err)
	}
	return nil
}

func (s *talentBankService) toDTO(ctx context.Context, item *models.TalentBankItem) dto.TalentBankItemDTO {
	url, err := s.storage.GetSignedURL(ctx, item.FilePath, s.urlExpiry)
	if err != nil {
		url = ""
	}
	return dto.TalentBankItemDTO{
		ItemID:    item.ItemID,
		Label:     item.Label,
		FileType:  item.FileType,
		MimeType:  item.MimeType,
		Size:      item.Size,
		URL:       url,
		CreatedAt: item.CreatedAt,
	}
}
