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
	"creerlio_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const sharedPayloadVersion = 1

type SnapshotService interface {
	// CreateSnapshot строит shared_payload из текущего профиля и вставляет
	// новую строку. Строки append-only: смена конфигурации = новый снапшот.
	CreateSnapshot(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateSnapshotRequest) (*dto.SnapshotDTO, error)
	ListSnapshots(ctx context.Context, db *gorm.DB, userID string, limit int) ([]dto.SnapshotDTO, error)
	// Resolve находит снапшот для просмотра: по явному id, иначе самый
	// свежий для пары (talent, business), иначе - только для превью -
	// самый свежий вообще.
	Resolve(ctx context.Context, db *gorm.DB, query dto.ResolveSnapshotQuery, viewerUserID string, viewerRole models.UserRole) (*models.PortfolioSnapshot, error)
}

type snapshotService struct {
	snapshotRepo repositories.SnapshotRepository
	profileRepo  repositories.ProfileRepository
}

func NewSnapshotService(snapshotRepo repositories.SnapshotRepository, profileRepo repositories.ProfileRepository) SnapshotService {
	return &snapshotService{
		snapshotRepo: snapshotRepo,
		profileRepo:  profileRepo,
	}
}

// sharedSlice нормализует включенную секцию: nil превращается в пустой
// срез, чтобы в JSON она присутствовала как [], а не пропадала
func sharedSlice[T any](items []T) *[]T {
	if items == nil {
		items = []T{}
	}
	return &items
}

// BuildSharedPayload - чистая функция (портфолио, конфиг, шаблон) -> payload.
// Выключенная секция отсутствует в документе целиком, включенная
// присутствует даже пустой; медиа попадает только при включенном
// тумблере И явно выбранном пути/идентификаторе.
func BuildSharedPayload(portfolio *models.FullPortfolio, config models.ShareConfig, templateID string, at time.Time) models.SharedPayload {
	payload := models.SharedPayload{
		TemplateID:        templateID,
		SnapshotTimestamp: at,
		Version:           sharedPayloadVersion,
	}

	if config.ShareIntro {
		payload.Sections.Intro = &models.IntroSection{
			Name:  portfolio.Name,
			Title: portfolio.Title,
			Bio:   portfolio.Bio,
		}
	}
	if config.ShareSocial {
		payload.Sections.Social = sharedSlice(portfolio.SocialLinks)
	}
	if config.ShareSkills {
		payload.Sections.Skills = sharedSlice(portfolio.Skills)
	}
	if config.ShareExperience {
		payload.Sections.Experience = sharedSlice(portfolio.Experience)
	}
	if config.ShareEducation {
		payload.Sections.Education = sharedSlice(portfolio.Education)
	}
	if config.ShareReferees {
		payload.Sections.Referees = sharedSlice(portfolio.Referees)
	}
	if config.ShareProjects {
		payload.Sections.Projects = sharedSlice(portfolio.Projects)
	}
	if config.ShareAttachments {
		payload.Sections.Attachments = sharedSlice(portfolio.Attachments)
	}

	if config.ShareAvatar && config.SelectedAvatarPath != "" {
		path := config.SelectedAvatarPath
		payload.Media.AvatarPath = &path
	}
	if config.ShareBanner && config.SelectedBannerPath != "" {
		path := config.SelectedBannerPath
		payload.Media.BannerPath = &path
	}
	if config.ShareIntroVideo && config.SelectedIntroVideoID != nil {
		id := *config.SelectedIntroVideoID
		payload.Media.IntroVideoID = &id
	}

	return payload
}

func (s *snapshotService) CreateSnapshot(ctx context.Context, db *gorm.DB, userID string, req *dto.CreateSnapshotRequest) (*dto.SnapshotDTO, error) {
	profile, err := s.profileRepo.FindTalentByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("snapshot", "failed to resolve talent profile", err)
	}

	now := time.Now().UTC()
	payload := BuildSharedPayload(models.AssembleFullPortfolio(profile), req.ShareConfig, req.TemplateID, now)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.InternalError("snapshot", "failed to serialize payload", err)
	}

	snapshot := &models.PortfolioSnapshot{
		TalentProfileID:   profile.ID,
		UserID:            userID,
		TemplateID:        req.TemplateID,
		SharedPayload:     datatypes.JSON(data),
		SnapshotTimestamp: now,
		Version:           sharedPayloadVersion,
	}
	if req.BusinessID != "" {
		if _, err := s.profileRepo.FindBusinessByID(db, req.BusinessID); err != nil {
			if errors.Is(err, repositories.ErrBusinessProfileNotFound) {
				return nil, apperrors.NewNotFoundError("snapshot", "business profile not found")
			}
			return nil, apperrors.DatabaseError("snapshot", "failed to find business", err)
		}
		businessID := req.BusinessID
		snapshot.BusinessID = &businessID
	}

	if err := s.snapshotRepo.Create(db, snapshot); err != nil {
		return nil, apperrors.DatabaseError("snapshot", "failed to store snapshot", err)
	}

	logger.CtxInfo(ctx, "portfolio snapshot published",
		"snapshot_id", snapshot.ID,
		"talent_profile_id", profile.ID,
		"template_id", req.TemplateID,
		"pinned", snapshot.BusinessID != nil)

	result := dto.ToSnapshotDTO(snapshot)
	return &result, nil
}

func (s *snapshotService) ListSnapshots(ctx context.Context, db *gorm.DB, userID string, limit int) ([]dto.SnapshotDTO, error) {
	profile, err := s.profileRepo.FindTalentByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.DatabaseError("snapshot", "failed to resolve talent profile", err)
	}

	snapshots, err := s.snapshotRepo.ListByTalent(db, profile.ID, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("snapshot", "failed to list snapshots", err)
	}

	result := make([]dto.SnapshotDTO, 0, len(snapshots))
	for i := range snapshots {
		result = append(result, dto.ToSnapshotDTO(&snapshots[i]))
	}
	return result, nil
}

func (s *snapshotService) Resolve(ctx context.Context, db *gorm.DB, query dto.ResolveSnapshotQuery, viewerUserID string, viewerRole models.UserRole) (*models.PortfolioSnapshot, error) {
	var viewerBusinessID string
	if viewerRole == models.UserRoleBusiness {
		business, err := s.profileRepo.FindBusinessByUserID(db, viewerUserID)
		if err != nil {
			if !errors.Is(err, repositories.ErrBusinessProfileNotFound) {
				return nil, apperrors.DatabaseError("snapshot", "failed to resolve viewer", err)
			}
		} else {
			viewerBusinessID = business.ID
		}
	}

	// 1. Явный snapshot_id бьет все остальное
	if query.SnapshotID != "" {
		snapshot, err := s.snapshotRepo.FindByID(db, query.SnapshotID)
		if err != nil {
			if errors.Is(err, repositories.ErrSnapshotNotFound) {
				return nil, apperrors.ErrSnapshotNotFound
			}
			return nil, apperrors.DatabaseError("snapshot", "failed to find snapshot", err)
		}
		// Привязанный снапшот отдается только своему бизнесу
		// (и владельцу-таланту)
		if snapshot.BusinessID != nil && *snapshot.BusinessID != viewerBusinessID && snapshot.UserID != viewerUserID {
			return nil, apperrors.ErrSnapshotNotFound
		}
		return snapshot, nil
	}

	if query.TalentID == "" {
		return nil, apperrors.NewBadRequestError("snapshot_id or talent_id is required")
	}

	// 2. Свежайший снапшот, закрепленный за парой
	if viewerBusinessID != "" {
		snapshot, err := s.snapshotRepo.FindLatestForBusiness(db, query.TalentID, viewerBusinessID)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, repositories.ErrSnapshotNotFound) {
			return nil, apperrors.DatabaseError("snapshot", "failed to resolve snapshot", err)
		}
	}

	// 3. Свежайший непривязанный - только превью самого таланта.
	// Бизнесу без закрепленного снапшота не отдается ничего: превью-ветка
	// не участвует в решении, что видит конкретный бизнес.
	if !query.Preview {
		return nil, apperrors.ErrSnapshotNotFound
	}
	talent, err := s.profileRepo.FindTalentByID(db, query.TalentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTalentProfileNotFound) {
			return nil, apperrors.ErrSnapshotNotFound
		}
		return nil, apperrors.DatabaseError("snapshot", "failed to resolve talent", err)
	}
	if talent.UserID != viewerUserID {
		return nil, apperrors.ErrSnapshotNotFound
	}
	snapshot, err := s.snapshotRepo.FindLatest(db, query.TalentID)
	if err != nil {
		if errors.Is(err, repositories.ErrSnapshotNotFound) {
			return nil, apperrors.ErrSnapshotNotFound
		}
		return nil, apperrors.DatabaseError("snapshot", "failed to resolve snapshot", err)
	}
	return snapshot, nil
}
