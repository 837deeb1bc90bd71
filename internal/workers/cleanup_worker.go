package workers

import (
	"context"
	"time"

	"uniplug_backend/internal/logger"
	"uniplug_backend/internal/repositories"
)

// CleanupWorker deletes read notifications older than the retention
// window. Unread records are kept regardless of age.
type CleanupWorker struct {
	notificationRepo repositories.NotificationRepository
	retentionDays    int
}

func NewCleanupWorker(notificationRepo repositories.NotificationRepository, retentionDays int) *CleanupWorker {
	return &CleanupWorker{
		notificationRepo: notificationRepo,
		retentionDays:    retentionDays,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -w.retentionDays)
			deleted, err := w.notificationRepo.DeleteReadOlderThan(cutoff)
			if err != nil {
				logger.WorkerLog("cleanup", "delete_read_notifications", err)
				continue
			}
			if deleted > 0 {
				logger.Info("Old notifications cleaned", "deleted", deleted, "older_than_days", w.retentionDays)
			}
		}
	}
}
