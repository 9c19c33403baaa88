package repositories

import (
	"errors"

	"creerlio_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTalentProfileNotFound   = errors.New("talent profile not found")
	ErrBusinessProfileNotFound = errors.New("business profile not found")
)

type ProfileRepository interface {
	// Talent
	CreateTalentProfile(db *gorm.DB, profile *models.TalentProfile) error
	FindTalentByID(db *gorm.DB, id string) (*models.TalentProfile, error)
	FindTalentByUserID(db *gorm.DB, userID string) (*models.TalentProfile, error)
	UpdateTalentProfile(db *gorm.DB, profile *models.TalentProfile) error

	// Business
	CreateBusinessProfile(db *gorm.DB, profile *models.BusinessProfile) error
	FindBusinessByID(db *gorm.DB, id string) (*models.BusinessProfile, error)
	FindBusinessByUserID(db *gorm.DB, userID string) (*models.BusinessProfile, error)
	UpdateBusinessProfile(db *gorm.DB, profile *models.BusinessProfile) error

	// Admin cascade
	DeleteProfilesByUserID(db *gorm.DB, userID string) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

// ---------------- Talent ----------------

func (r *ProfileRepositoryImpl) CreateTalentProfile(db *gorm.DB, profile *models.TalentProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindTalentByID(db *gorm.DB, id string) (*models.TalentProfile, error) {
	var profile models.TalentProfile
	err := db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindTalentByUserID(db *gorm.DB, userID string) (*models.TalentProfile, error) {
	var profile models.TalentProfile
	err := db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateTalentProfile(db *gorm.DB, profile *models.TalentProfile) error {
	return db.Save(profile).Error
}

// ---------------- Business ----------------

func (r *ProfileRepositoryImpl) CreateBusinessProfile(db *gorm.DB, profile *models.BusinessProfile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindBusinessByID(db *gorm.DB, id string) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	err := db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindBusinessByUserID(db *gorm.DB, userID string) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	err := db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) UpdateBusinessProfile(db *gorm.DB, profile *models.BusinessProfile) error {
	return db.Save(profile).Error
}

// ---------------- Admin cascade ----------------

func (r *ProfileRepositoryImpl) DeleteProfilesByUserID(db *gorm.DB, userID string) error {
	if err := db.Delete(&models.TalentProfile{}, "user_id = ?", userID).Error; err != nil {
		return err
	}
	return db.Delete(&models.BusinessProfile{}, "user_id = ?", userID).Error
}
