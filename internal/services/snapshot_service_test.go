package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/services/dto"
	"creerlio_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestSnapshotService() SnapshotService {
	return NewSnapshotService(repositories.NewSnapshotRepository(), repositories.NewProfileRepository())
}

// seedSnapshot вставляет снапшот напрямую, с управляемым timestamp,
// чтобы тесты разрешения не зависели от наносекундных гонок time.Now
func seedSnapshot(t *testing.T, db *gorm.DB, pair testPair, businessID *string, at time.Time) *models.PortfolioSnapshot {
	t.Helper()

	payload := BuildSharedPayload(
		models.AssembleFullPortfolio(pair.Talent),
		models.ShareConfig{ShareIntro: true},
		"classic",
		at,
	)
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	snapshot := &models.PortfolioSnapshot{
		TalentProfileID:   pair.Talent.ID,
		UserID:            pair.TalentUser.ID,
		TemplateID:        "classic",
		SharedPayload:     datatypes.JSON(data),
		SnapshotTimestamp: at,
		Version:           1,
		BusinessID:        businessID,
	}
	require.NoError(t, db.Create(snapshot).Error)
	return snapshot
}

func TestCreateSnapshotFreezesProfileState(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestSnapshotService()

	pair.Talent.SetSkills([]string{"mixing", "mastering"})
	require.NoError(t, db.Save(pair.Talent).Error)

	first, err := svc.CreateSnapshot(context.Background(), db, pair.TalentUser.ID, &dto.CreateSnapshotRequest{
		TemplateID:  "classic",
		ShareConfig: models.ShareConfig{ShareIntro: true, ShareSkills: true},
	})
	require.NoError(t, err)

	// Профиль меняется после публикации - снапшот этого видеть не должен
	pair.Talent.SetSkills([]string{"foley"})
	require.NoError(t, db.Save(pair.Talent).Error)

	var stored models.PortfolioSnapshot
	require.NoError(t, db.First(&stored, "id = ?", first.ID).Error)

	var payload models.SharedPayload
	require.NoError(t, json.Unmarshal(stored.SharedPayload, &payload))
	require.NotNil(t, payload.Sections.Skills)
	assert.Equal(t, []string{"mixing", "mastering"}, *payload.Sections.Skills)
	require.NotNil(t, payload.Sections.Intro)
	assert.Equal(t, "Jane Doe", payload.Sections.Intro.Name)
	assert.Nil(t, payload.Sections.Experience)
}

func TestCreateSnapshotPinsToBusiness(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestSnapshotService()

	created, err := svc.CreateSnapshot(context.Background(), db, pair.TalentUser.ID, &dto.CreateSnapshotRequest{
		TemplateID:  "classic",
		ShareConfig: models.ShareConfig{ShareIntro: true},
		BusinessID:  pair.Business.ID,
	})
	require.NoError(t, err)

	var stored models.PortfolioSnapshot
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.NotNil(t, stored.BusinessID)
	assert.Equal(t, pair.Business.ID, *stored.BusinessID)

	// Привязка к несуществующему бизнесу отклоняется
	_, err = svc.CreateSnapshot(context.Background(), db, pair.TalentUser.ID, &dto.CreateSnapshotRequest{
		TemplateID:  "classic",
		ShareConfig: models.ShareConfig{ShareIntro: true},
		BusinessID:  "11111111-2222-3333-4444-555555555555",
	})
	require.Error(t, err)
}

func TestResolveExplicitIDRespectsPinning(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestSnapshotService()

	pinned := seedSnapshot(t, db, pair, &pair.Business.ID, time.Now().UTC())

	// Свой бизнес видит привязанный снапшот
	got, err := svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{SnapshotID: pinned.ID},
		pair.BusinessUser.ID, models.UserRoleBusiness)
	require.NoError(t, err)
	assert.Equal(t, pinned.ID, got.ID)

	// Чужой бизнес - нет, и не узнает о существовании
	otherUser := &models.User{Email: "rival@example.com", PasswordHash: "x", Role: models.UserRoleBusiness, Status: models.UserStatusActive}
	require.NoError(t, db.Create(otherUser).Error)
	require.NoError(t, db.Create(&models.BusinessProfile{UserID: otherUser.ID, BusinessName: "Rival Co"}).Error)

	_, err = svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{SnapshotID: pinned.ID},
		otherUser.ID, models.UserRoleBusiness)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.HTTPCode)

	// Талант-владелец всегда видит собственный снапшот
	got, err = svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{SnapshotID: pinned.ID},
		pair.TalentUser.ID, models.UserRoleTalent)
	require.NoError(t, err)
	assert.Equal(t, pinned.ID, got.ID)
}

func TestResolveLatestForBusinessPair(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestSnapshotService()

	base := time.Now().UTC().Add(-time.Hour)
	seedSnapshot(t, db, pair, &pair.Business.ID, base)
	newest := seedSnapshot(t, db, pair, &pair.Business.ID, base.Add(30*time.Minute))
	// Непривязанный снапшот свежее обоих, но пару он не обслуживает
	seedSnapshot(t, db, pair, nil, base.Add(45*time.Minute))

	got, err := svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{TalentID: pair.Talent.ID},
		pair.BusinessUser.ID, models.UserRoleBusiness)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, got.ID)
}

// Фолбэк "свежайший непривязанный" - личное превью таланта, а не
// канал доставки: бизнес через него не получает НИЧЕГО, даже с
// выставленным preview-флагом.
func TestResolveLatestOverallIsOwnerPreviewOnly(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestSnapshotService()

	base := time.Now().UTC().Add(-time.Hour)
	seedSnapshot(t, db, pair, nil, base)
	newest := seedSnapshot(t, db, pair, nil, base.Add(10*time.Minute))

	// Бизнес без закрепленного снапшота: 404 и без preview, и с ним
	for _, preview := range []bool{false, true} {
		_, err := svc.Resolve(context.Background(), db,
			dto.ResolveSnapshotQuery{TalentID: pair.Talent.ID, Preview: preview},
			pair.BusinessUser.ID, models.UserRoleBusiness)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.HTTPCode)
	}

	// Владелец-талант превьюирует свежайший непривязанный
	got, err := svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{TalentID: pair.Talent.ID, Preview: true},
		pair.TalentUser.ID, models.UserRoleTalent)
	require.NoError(t, err)
	assert.Equal(t, newest.ID, got.ID)

	// Чужой талант - не владелец, тоже 404
	otherTalentUser := &models.User{Email: "peer@example.com", PasswordHash: "x", Role: models.UserRoleTalent, Status: models.UserStatusActive}
	require.NoError(t, db.Create(otherTalentUser).Error)
	require.NoError(t, db.Create(&models.TalentProfile{UserID: otherTalentUser.ID, Name: "Peer"}).Error)

	_, err = svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{TalentID: pair.Talent.ID, Preview: true},
		otherTalentUser.ID, models.UserRoleTalent)
	require.Error(t, err)
}

// Привязанные строки в превью-фолбэк не попадают вовсе
func TestResolveOwnerPreviewSkipsPinnedSnapshots(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestSnapshotService()

	base := time.Now().UTC().Add(-time.Hour)
	unpinned := seedSnapshot(t, db, pair, nil, base)
	seedSnapshot(t, db, pair, &pair.Business.ID, base.Add(10*time.Minute)) // свежее, но закреплен

	got, err := svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{TalentID: pair.Talent.ID, Preview: true},
		pair.TalentUser.ID, models.UserRoleTalent)
	require.NoError(t, err)
	assert.Equal(t, unpinned.ID, got.ID)
}

func TestResolveRequiresSomeSelector(t *testing.T) {
	db := setupTestDB(t)
	pair := seedPair(t, db)
	svc := newTestSnapshotService()

	_, err := svc.Resolve(context.Background(), db,
		dto.ResolveSnapshotQuery{},
		pair.BusinessUser.ID, models.UserRoleBusiness)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}
