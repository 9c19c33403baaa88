package services

import (
	"testing"

	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.TalentProfile{},
		&models.BusinessProfile{},
		&models.ConnectionRequest{},
		&models.TalentAccessGrant{},
		&models.PortfolioSnapshot{},
		&models.Notification{},
		&models.TalentBankItem{},
	))
	return db
}

type testPair struct {
	TalentUser   *models.User
	Talent       *models.TalentProfile
	BusinessUser *models.User
	Business     *models.BusinessProfile
}

func seedPair(t *testing.T, db *gorm.DB) testPair {
	t.Helper()

	talentUser := &models.User{
		Email:        "talent@example.com",
		PasswordHash: "x",
		Role:         models.UserRoleTalent,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(talentUser).Error)

	talent := &models.TalentProfile{
		UserID: talentUser.ID,
		Name:   "Jane Doe",
		Title:  "Sound Engineer",
	}
	require.NoError(t, db.Create(talent).Error)

	businessUser := &models.User{
		Email:        "business@example.com",
		PasswordHash: "x",
		Role:         models.UserRoleBusiness,
		Status:       models.UserStatusActive,
	}
	require.NoError(t, db.Create(businessUser).Error)

	business := &models.BusinessProfile{
		UserID:       businessUser.ID,
		BusinessName: "Acme Studios",
		Industry:     "Media",
	}
	require.NoError(t, db.Create(business).Error)

	return testPair{
		TalentUser:   talentUser,
		Talent:       talent,
		BusinessUser: businessUser,
		Business:     business,
	}
}

func newTestConnectionService() ConnectionService {
	profileRepo := repositories.NewProfileRepository()
	notificationService := NewNotificationService(repositories.NewNotificationRepository(), profileRepo)
	return NewConnectionService(
		repositories.NewConnectionRepository(),
		profileRepo,
		notificationService,
		30,
	)
}
