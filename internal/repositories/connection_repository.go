package repositories

import (
	"errors"
	"time"

	"creerlio_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrConnectionRequestNotFound = errors.New("connection request not found")
	// ErrStaleConnectionVersion is returned when a conditional update matched no
	// row, i.e. another writer moved the request first.
	ErrStaleConnectionVersion = errors.New("connection request version is stale")
)

type ConnectionRepository interface {
	Create(db *gorm.DB, req *models.ConnectionRequest) error
	FindByID(db *gorm.DB, id string) (*models.ConnectionRequest, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.ConnectionRequest, error)
	// FindActiveByPair returns the non-terminal (pending or accepted) request
	// for a talent/business pair, if any.
	FindActiveByPair(db *gorm.DB, talentID, businessID string) (*models.ConnectionRequest, error)
	FindByPair(db *gorm.DB, talentID, businessID string) (*models.ConnectionRequest, error)
	ListByTalent(db *gorm.DB, talentID string, statuses []models.ConnectionStatus) ([]models.ConnectionRequest, error)
	ListByBusiness(db *gorm.DB, businessID string, statuses []models.ConnectionStatus) ([]models.ConnectionRequest, error)
	// UpdateVersioned writes the given fields only if the stored version still
	// matches req.Version, bumping the version in the same statement.
	UpdateVersioned(db *gorm.DB, req *models.ConnectionRequest, updates map[string]interface{}) error
	DeleteByParticipant(db *gorm.DB, profileID string) error

	CreateAccessGrant(db *gorm.DB, grant *models.TalentAccessGrant) error
	RevokeAccessGrants(db *gorm.DB, talentID, businessID string) error
	DeleteExpiredGrants(db *gorm.DB, before time.Time) (int64, error)
	DeleteGrantsByParticipant(db *gorm.DB, profileID string) error
}

type ConnectionRepositoryImpl struct{}

func NewConnectionRepository() ConnectionRepository {
	return &ConnectionRepositoryImpl{}
}

func (r *ConnectionRepositoryImpl) Create(db *gorm.DB, req *models.ConnectionRequest) error {
	return db.Create(req).Error
}

func (r *ConnectionRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := db.
		Preload("Talent").
		Preload("Business").
		First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := db.First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepositoryImpl) FindActiveByPair(db *gorm.DB, talentID, businessID string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := db.
		Where("talent_id = ? AND business_id = ?", talentID, businessID).
		Where("status IN ?", []models.ConnectionStatus{models.ConnectionStatusPending, models.ConnectionStatusAccepted}).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepositoryImpl) FindByPair(db *gorm.DB, talentID, businessID string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := db.
		Where("talent_id = ? AND business_id = ?", talentID, businessID).
		Order("updated_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepositoryImpl) ListByTalent(db *gorm.DB, talentID string, statuses []models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	query := db.
		Preload("Business").
		Where("talent_id = ?", talentID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *ConnectionRepositoryImpl) ListByBusiness(db *gorm.DB, businessID string, statuses []models.ConnectionStatus) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	query := db.
		Preload("Talent").
		Where("business_id = ?", businessID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *ConnectionRepositoryImpl) UpdateVersioned(db *gorm.DB, req *models.ConnectionRequest, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")
	result := db.Model(&models.ConnectionRequest{}).
		Where("id = ? AND version = ?", req.ID, req.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleConnectionVersion
	}
	req.Version++
	return nil
}

func (r *ConnectionRepositoryImpl) DeleteByParticipant(db *gorm.DB, profileID string) error {
	return db.Delete(&models.ConnectionRequest{}, "talent_id = ? OR business_id = ?", profileID, profileID).Error
}

// ---------------- Access grants ----------------

func (r *ConnectionRepositoryImpl) CreateAccessGrant(db *gorm.DB, grant *models.TalentAccessGrant) error {
	return db.Create(grant).Error
}

func (r *ConnectionRepositoryImpl) RevokeAccessGrants(db *gorm.DB, talentID, businessID string) error {
	now := time.Now()
	return db.Model(&models.TalentAccessGrant{}).
		Where("talent_id = ? AND business_id = ? AND revoked_at IS NULL", talentID, businessID).
		Update("revoked_at", now).Error
}

func (r *ConnectionRepositoryImpl) DeleteExpiredGrants(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Delete(&models.TalentAccessGrant{}, "expires_at < ?", before)
	return result.RowsAffected, result.Error
}

func (r *ConnectionRepositoryImpl) DeleteGrantsByParticipant(db *gorm.DB, profileID string) error {
	return db.Delete(&models.TalentAccessGrant{}, "talent_id = ? OR business_id = ?", profileID, profileID).Error
}
