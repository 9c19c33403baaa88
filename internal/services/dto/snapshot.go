package dto

import (
	"time"

	"creerlio_backend/internal/models"
)

// CreateSnapshotRequest - публикация среза портфолио.
// BusinessID пустой = превью без привязки к бизнесу.
type CreateSnapshotRequest struct {
	TemplateID  string             `json:"template_id" binding:"required"`
	ShareConfig models.ShareConfig `json:"share_config" binding:"required"`
	BusinessID  string             `json:"business_id,omitempty" binding:"omitempty,uuid"`
}

// SnapshotDTO - метаданные опубликованного снапшота (без payload)
type SnapshotDTO struct {
	ID                string    `json:"id"`
	TemplateID        string    `json:"template_id"`
	SnapshotTimestamp time.Time `json:"snapshot_timestamp"`
	Version           int       `json:"version"`
	BusinessID        *string   `json:"business_id,omitempty"`
}

// ResolveSnapshotQuery - параметры разрешения снапшота для просмотра
type ResolveSnapshotQuery struct {
	SnapshotID string `form:"snapshot_id" binding:"omitempty,uuid"`
	TalentID   string `form:"talent_id" binding:"omitempty,uuid"`
	Preview    bool   `form:"preview"`
}

func ToSnapshotDTO(s *models.PortfolioSnapshot) SnapshotDTO {
	return SnapshotDTO{
		ID:                s.ID,
		TemplateID:        s.TemplateID,
		SnapshotTimestamp: s.SnapshotTimestamp,
		Version:           s.Version,
		BusinessID:        s.BusinessID,
	}
}
