package workers

import (
	"context"
	"time"

	"creerlio_backend/internal/logger"
	"creerlio_backend/internal/repositories"

	"gorm.io/gorm"
)

// RetentionWorker чистит прочитанные уведомления старше retention-окна
// и физически удаляет давно истекшие гранты доступа. Строки
// ConnectionRequest и PortfolioSnapshot ретеншеном не трогаются.
type RetentionWorker struct {
	db               *gorm.DB
	notificationRepo repositories.NotificationRepository
	connectionRepo   repositories.ConnectionRepository
	retention        time.Duration
	interval         time.Duration
}

func NewRetentionWorker(
	db *gorm.DB,
	notificationRepo repositories.NotificationRepository,
	connectionRepo repositories.ConnectionRepository,
	retentionDays int,
) *RetentionWorker {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &RetentionWorker{
		db:               db,
		notificationRepo: notificationRepo,
		connectionRepo:   connectionRepo,
		retention:        time.Duration(retentionDays) * 24 * time.Hour,
		interval:         24 * time.Hour,
	}
}

// Start запускает фоновую чистку
func (w *RetentionWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *RetentionWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("retention", "stop", nil)
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RetentionWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.retention)

	deleted, err := w.notificationRepo.DeleteOldRead(w.db, cutoff)
	if err != nil {
		logger.WorkerLog("retention", "delete old notifications", err)
	} else if deleted > 0 {
		logger.Info("deleted old read notifications", "worker", "retention", "count", deleted)
	}

	// Гранты держим в истории еще retention-окно после истечения
	removed, err := w.connectionRepo.DeleteExpiredGrants(w.db, cutoff)
	if err != nil {
		logger.WorkerLog("retention", "delete expired grants", err)
	} else if removed > 0 {
		logger.Info("deleted expired access grants", "worker", "retention", "count", removed)
	}
}
