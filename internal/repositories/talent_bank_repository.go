package repositories

import (
	"errors"

	"creerlio_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTalentBankItemNotFound = errors.New("talent bank item not found")

type TalentBankRepository interface {
	Create(db *gorm.DB, item *models.TalentBankItem) error
	FindByItemID(db *gorm.DB, itemID int64) (*models.TalentBankItem, error)
	ListByTalent(db *gorm.DB, talentID string) ([]models.TalentBankItem, error)
	Delete(db *gorm.DB, itemID int64, userID string) error
	DeleteByUserID(db *gorm.DB, userID string) error
}

type TalentBankRepositoryImpl struct{}

func NewTalentBankRepository() TalentBankRepository {
	return &TalentBankRepositoryImpl{}
}

func (r *TalentBankRepositoryImpl) Create(db *gorm.DB, item *models.TalentBankItem) error {
	return db.Create(item).Error
}

func (r *TalentBankRepositoryImpl) FindByItemID(db *gorm.DB, itemID int64) (*models.TalentBankItem, error) {
	var item models.TalentBankItem
	err := db.First(&item, "item_id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTalentBankItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *TalentBankRepositoryImpl) ListByTalent(db *gorm.DB, talentID string) ([]models.TalentBankItem, error) {
	var items []models.TalentBankItem
	err := db.Where("talent_id = ?", talentID).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *TalentBankRepositoryImpl) Delete(db *gorm.DB, itemID int64, userID string) error {
	result := db.Delete(&models.TalentBankItem{}, "item_id = ? AND user_id = ?", itemID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTalentBankItemNotFound
	}
	return nil
}

func (r *TalentBankRepositoryImpl) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Delete(&models.TalentBankItem{}, "user_id = ?", userID).Error
}
