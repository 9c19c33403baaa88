package services

import (
	"context"
	"encoding/json"
	"errors"

	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetTalentProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.TalentProfileDTO, error)
	UpdateTalentProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateTalentProfileRequest) (*dto.TalentProfileDTO, error)
	GetBusinessProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.BusinessProfileDTO, error)
	UpdateBusinessProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateBusinessProfileRequest) (*dto.BusinessProfileDTO, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetTalentProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.TalentProfileDTO, error) {
	profile, err := s.profileRepo.FindTalentByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("profile", "failed to find talent profile", err)
	}
	return toTalentProfileDTO(profile), nil
}

func (s *profileService) UpdateTalentProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateTalentProfileRequest) (*dto.TalentProfileDTO, error) {
	profile, err := s.profileRepo.FindTalentByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("profile", "failed to find talent profile", err)
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Title != nil {
		profile.Title = *req.Title
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.State != nil {
		profile.State = *req.State
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.IsPublic != nil {
		profile.IsPublic = *req.IsPublic
	}
	if req.AvatarPath != nil {
		profile.AvatarPath = *req.AvatarPath
	}
	if req.BannerPath != nil {
		profile.BannerPath = *req.BannerPath
	}

	if req.SocialLinks != nil {
		profile.SocialLinks = mustJSON(req.SocialLinks)
	}
	if req.Skills != nil {
		profile.Skills = mustJSON(req.Skills)
	}
	if req.Experience != nil {
		profile.Experience = mustJSON(req.Experience)
	}
	if req.Education != nil {
		profile.Education = mustJSON(req.Education)
	}
	if req.Referees != nil {
		profile.Referees = mustJSON(req.Referees)
	}
	if req.Projects != nil {
		profile.Projects = mustJSON(req.Projects)
	}
	if req.Attachments != nil {
		profile.Attachments = mustJSON(req.Attachments)
	}

	if err := s.profileRepo.UpdateTalentProfile(db, profile); err != nil {
		return nil, apperrors.DatabaseError("profile", "failed to update talent profile", err)
	}
	return toTalentProfileDTO(profile), nil
}

func (s *profileService) GetBusinessProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.BusinessProfileDTO, error) {
	profile, err := s.profileRepo.FindBusinessByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBusinessProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("profile", "failed to find business profile", err)
	}
	return toBusinessProfileDTO(profile), nil
}

func (s *profileService) UpdateBusinessProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateBusinessProfileRequest) (*dto.BusinessProfileDTO, error) {
	profile, err := s.profileRepo.FindBusinessByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBusinessProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("profile", "failed to find business profile", err)
	}

	if req.BusinessName != nil {
		profile.BusinessName = *req.BusinessName
	}
	if req.ContactPerson != nil {
		profile.ContactPerson = *req.ContactPerson
	}
	if req.Industry != nil {
		profile.Industry = *req.Industry
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.State != nil {
		profile.State = *req.State
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}

	if err := s.profileRepo.UpdateBusinessProfile(db, profile); err != nil {
		return nil, apperrors.DatabaseError("profile", "failed to update business profile", err)
	}
	return toBusinessProfileDTO(profile), nil
}

func mustJSON(v interface{}) datatypes.JSON {
	data, _ := json.Marshal(v)
	return datatypes.JSON(data)
}

func toTalentProfileDTO(p *models.TalentProfile) *dto.TalentProfileDTO {
	return &dto.TalentProfileDTO{
		ID:         p.ID,
		UserID:     p.UserID,
		Name:       p.Name,
		Title:      p.Title,
		Bio:        p.Bio,
		City:       p.City,
		State:      p.State,
		Country:    p.Country,
		IsPublic:   p.IsPublic,
		AvatarPath: p.AvatarPath,
		BannerPath: p.BannerPath,
		Portfolio:  *models.AssembleFullPortfolio(p),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toBusinessProfileDTO(p *models.BusinessProfile) *dto.BusinessProfileDTO {
	return &dto.BusinessProfileDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		BusinessName:  p.BusinessName,
		ContactPerson: p.ContactPerson,
		Industry:      p.Industry,
		Website:       p.Website,
		City:          p.City,
		State:         p.State,
		Country:       p.Country,
		Description:   p.Description,
		IsVerified:    p.IsVerified,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
