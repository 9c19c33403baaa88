package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"creerlio_backend/internal/logger"
	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/internal/storage"
	"creerlio_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// PortfolioViewService рендерит разрезолвленный снапшот для просмотрщика:
// распаковывает shared_payload и превращает хранимые пути в короткоживущие
// подписанные URL. Сам payload при этом никогда не мутируется.
type PortfolioViewService interface {
	RenderSnapshot(ctx context.Context, db *gorm.DB, snapshot *models.PortfolioSnapshot) (*dto.PortfolioViewDTO, error)
}

type portfolioViewService struct {
	talentBankRepo repositories.TalentBankRepository
	storage        storage.Storage
	urlExpiry      time.Duration
}

func NewPortfolioViewService(
	talentBankRepo repositories.TalentBankRepository,
	store storage.Storage,
	urlExpirySeconds int,
) PortfolioViewService {
	if urlExpirySeconds <= 0 {
		urlExpirySeconds = 3600
	}
	return &portfolioViewService{
		talentBankRepo: talentBankRepo,
		storage:        store,
		urlExpiry:      time.Duration(urlExpirySeconds) * time.Second,
	}
}

func (s *portfolioViewService) RenderSnapshot(ctx context.Context, db *gorm.DB, snapshot *models.PortfolioSnapshot) (*dto.PortfolioViewDTO, error) {
	var payload models.SharedPayload
	if err := json.Unmarshal(snapshot.SharedPayload, &payload); err != nil {
		return nil, apperrors.InternalError("portfolio_view", "snapshot payload is corrupt", err)
	}

	view := &dto.PortfolioViewDTO{
		SnapshotID:        snapshot.ID,
		TemplateID:        payload.TemplateID,
		Sections:          payload.Sections,
		SnapshotTimestamp: payload.SnapshotTimestamp,
	}

	// Имя берется ТОЛЬКО из intro-секции снапшота. Если intro не
	// расшарен, имени у просмотрщика нет - живой профиль рендерер
	// не читает ни для одного поля.
	if payload.Sections.Intro != nil {
		view.TalentName = payload.Sections.Intro.Name
	}

	// Подписанные URL генерируются на каждый просмотр; сбой подписи
	// одного медиа не валит рендер целиком.
	if payload.Media.AvatarPath != nil {
		view.Media.AvatarURL = s.signPath(ctx, *payload.Media.AvatarPath)
	}
	if payload.Media.BannerPath != nil {
		view.Media.BannerURL = s.signPath(ctx, *payload.Media.BannerPath)
	}
	if payload.Media.IntroVideoID != nil {
		view.Media.IntroVideoURL = s.signIntroVideo(ctx, db, *payload.Media.IntroVideoID)
	}

	return view, nil
}

func (s *portfolioViewService) signPath(ctx context.Context, path string) string {
	url, err := s.storage.GetSignedURL(ctx, path, s.urlExpiry)
	if err != nil {
		logger.CtxWarn(ctx, "failed to sign media url", "path", path, "error", err.Error())
		return ""
	}
	return url
}

// signIntroVideo разыменовывает intro_video_id через банк таланта:
// в снапшоте хранится только идентификатор, путь живет в банке.
func (s *portfolioViewService) signIntroVideo(ctx context.Context, db *gorm.DB, itemID int64) string {
	item, err := s.talentBankRepo.FindByItemID(db, itemID)
	if err != nil {
		if !errors.Is(err, repositories.ErrTalentBankItemNotFound) {
			logger.CtxWarn(ctx, "failed to load intro video item", "item_id", itemID, "error", err.Error())
		}
		return ""
	}
	return s.signPath(ctx, item.FilePath)
}
