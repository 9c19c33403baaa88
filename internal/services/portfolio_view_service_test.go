package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestPortfolioViewService(t *testing.T) PortfolioViewService {
	t.Helper()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "/media"})
	require.NoError(t, err)
	return NewPortfolioViewService(repositories.NewTalentBankRepository(), store, 3600)
}

func TestRenderSnapshotTakesNameFromIntroSection(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestPortfolioViewService(t)

	snapshot := seedSnapshot(t, db, pair, nil, time.Now().UTC()) // seedSnapshot шарит intro

	view, err := svc.RenderSnapshot(context.Background(), db, snapshot)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", view.TalentName)
	assert.Equal(t, snapshot.ID, view.SnapshotID)
}

// Рендерер работает ТОЛЬКО с payload снапшота: когда intro не расшарен,
// имя таланта не подтягивается из живого профиля, даже если профиль
// доступен в той же БД.
func TestRenderSnapshotNeverReadsLiveProfile(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	viewSvc := newTestPortfolioViewService(t)
	snapSvc := newTestSnapshotService()

	pair.Talent.SetSkills([]string{"mixing"})
	require.NoError(t, db.Save(pair.Talent).Error)

	created, err := snapSvc.CreateSnapshot(context.Background(), db, pair.TalentUser.ID, &dto.CreateSnapshotRequest{
		TemplateID:  "classic",
		ShareConfig: models.ShareConfig{ShareSkills: true}, // intro выключен
	})
	require.NoError(t, err)

	var stored models.PortfolioSnapshot
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)

	view, err := viewSvc.RenderSnapshot(context.Background(), db, &stored)
	require.NoError(t, err)
	assert.Empty(t, view.TalentName)
	require.NotNil(t, view.Sections.Skills)
	assert.Nil(t, view.Sections.Intro)
}

func TestRenderSnapshotSignsSelectedMedia(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestPortfolioViewService(t)

	payload := BuildSharedPayload(
		models.AssembleFullPortfolio(pair.Talent),
		models.ShareConfig{
			ShareIntro:         true,
			ShareAvatar:        true,
			SelectedAvatarPath: "avatars/jane.jpg",
		},
		"classic",
		time.Now().UTC(),
	)
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	snapshot := &models.PortfolioSnapshot{
		TalentProfileID:   pair.Talent.ID,
		UserID:            pair.TalentUser.ID,
		TemplateID:        "classic",
		SharedPayload:     datatypes.JSON(data),
		SnapshotTimestamp: time.Now().UTC(),
		Version:           1,
	}
	require.NoError(t, db.Create(snapshot).Error)

	view, err := svc.RenderSnapshot(context.Background(), db, snapshot)
	require.NoError(t, err)
	assert.Equal(t, "/media/avatars/jane.jpg", view.Media.AvatarURL)
	assert.Empty(t, view.Media.BannerURL)
	assert.Empty(t, view.Media.IntroVideoURL)
}
