package app

import (
	"context"
	"errors"
	"fmt"

	"creerlio_backend/internal/auth"
	"creerlio_backend/internal/config"
	"creerlio_backend/internal/handlers"
	"creerlio_backend/internal/logger"
	"creerlio_backend/internal/middleware"
	"creerlio_backend/internal/models"
	"creerlio_backend/internal/repositories"
	"creerlio_backend/internal/routes"
	"creerlio_backend/internal/services"
	"creerlio_backend/internal/storage"
	"creerlio_backend/internal/validator"
	"creerlio_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	auth.Init(cfg.JWT.Secret, cfg.JWT.TTL)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	// Фоновая чистка уведомлений и истекших грантов
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	retention := workers.NewRetentionWorker(
		gormDB,
		repositories.NewNotificationRepository(),
		repositories.NewConnectionRepository(),
		cfg.Notifications.RetentionDays,
	)
	retention.Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// AutoMigrate создает/обновляет схему для всех моделей приложения
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TalentProfile{},
		&models.BusinessProfile{},
		&models.ConnectionRequest{},
		&models.TalentAccessGrant{},
		&models.PortfolioSnapshot{},
		&models.Notification{},
		&models.TalentBankItem{},
	)
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, storageInstance)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	connectionRepo := repositories.NewConnectionRepository()
	snapshotRepo := repositories.NewSnapshotRepository()
	notificationRepo := repositories.NewNotificationRepository()
	talentBankRepo := repositories.NewTalentBankRepository()

	notificationService := services.NewNotificationService(notificationRepo, profileRepo)

	return &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, profileRepo),
		UserService:    services.NewUserService(userRepo, profileRepo, connectionRepo, snapshotRepo, notificationRepo, talentBankRepo),
		ProfileService: services.NewProfileService(profileRepo),
		ConnectionService: services.NewConnectionService(
			connectionRepo,
			profileRepo,
			notificationService,
			cfg.Notifications.GrantTTLDays,
		),
		SnapshotService: services.NewSnapshotService(snapshotRepo, profileRepo),
		PortfolioViewService: services.NewPortfolioViewService(
			talentBankRepo,
			storageInstance,
			cfg.Notifications.SignedURLExpiry,
		),
		NotificationService: notificationService,
		TalentBankService: services.NewTalentBankService(
			talentBankRepo,
			profileRepo,
			storageInstance,
			cfg.Notifications.SignedURLExpiry,
		),
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(base, services.AuthService),
		ConnectionHandler: handlers.NewConnectionHandler(base, services.ConnectionService),
		PortfolioHandler: handlers.NewPortfolioHandler(
			base,
			services.SnapshotService,
			services.PortfolioViewService,
			services.ProfileService,
		),
		NotificationHandler: handlers.NewNotificationHandler(base, services.NotificationService),
		TalentBankHandler:   handlers.NewTalentBankHandler(base, services.TalentBankService),
		AdminHandler:        handlers.NewAdminHandler(base, services.UserService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("first_admin_email or first_admin_password is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	logger.Warn("No admin user found. Creating first admin.", "email", adminEmail)
	return db.Create(&models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}).Error
}
