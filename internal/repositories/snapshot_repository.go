package repositories

import (
	"errors"

	"creerlio_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSnapshotNotFound = errors.New("portfolio snapshot not found")

// SnapshotRepository is append-only: snapshots are never updated or deleted
// except through the admin cascade.
type SnapshotRepository interface {
	Create(db *gorm.DB, snapshot *models.PortfolioSnapshot) error
	FindByID(db *gorm.DB, id string) (*models.PortfolioSnapshot, error)
	// FindLatestForBusiness returns the newest snapshot pinned to the exact
	// talent/business pair. Snapshots without a business binding never match.
	FindLatestForBusiness(db *gorm.DB, talentProfileID, businessID string) (*models.PortfolioSnapshot, error)
	// FindLatest returns the newest snapshot for a talent regardless of
	// business binding. Preview use only.
	FindLatest(db *gorm.DB, talentProfileID string) (*models.PortfolioSnapshot, error)
	ListByTalent(db *gorm.DB, talentProfileID string, limit int) ([]models.PortfolioSnapshot, error)
	DeleteByUserID(db *gorm.DB, userID string) error
}

type SnapshotRepositoryImpl struct{}

func NewSnapshotRepository() SnapshotRepository {
	return &SnapshotRepositoryImpl{}
}

func (r *SnapshotRepositoryImpl) Create(db *gorm.DB, snapshot *models.PortfolioSnapshot) error {
	return db.Create(snapshot).Error
}

func (r *SnapshotRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot
	err := db.First(&snapshot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *SnapshotRepositoryImpl) FindLatestForBusiness(db *gorm.DB, talentProfileID, businessID string) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot
	err := db.
		Where("talent_profile_id = ? AND business_id = ?", talentProfileID, businessID).
		Order("snapshot_timestamp DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

// FindLatest отдает свежайший НЕпривязанный снапшот таланта.
// Закрепленные за бизнесом строки здесь не видны, у них свой путь
// через FindLatestForBusiness.
func (r *SnapshotRepositoryImpl) FindLatest(db *gorm.DB, talentProfileID string) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot
	err := db.
		Where("talent_profile_id = ? AND business_id IS NULL", talentProfileID).
		Order("snapshot_timestamp DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *SnapshotRepositoryImpl) ListByTalent(db *gorm.DB, talentProfileID string, limit int) ([]models.PortfolioSnapshot, error) {
	var snapshots []models.PortfolioSnapshot
	query := db.
		Where("talent_profile_id = ?", talentProfileID).
		Order("snapshot_timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&snapshots).Error
	return snapshots, err
}

func (r *SnapshotRepositoryImpl) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Delete(&models.PortfolioSnapshot{}, "user_id = ?", userID).Error
}
