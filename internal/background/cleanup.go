package background

import (
	"context"
	"log/slog"
	"time"
)

// ChallengeCleaner removes long-expired access-code challenges
type ChallengeCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// CleanupManager periodically removes stale challenge rows. Challenges are
// superseded in place rather than deleted during normal operation, so the
// table only shrinks here.
type CleanupManager struct {
	challenges ChallengeCleaner
	logger     *slog.Logger
	interval   time.Duration
	stopCh     chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(challenges ChallengeCleaner, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		challenges: challenges,
		logger:     logger,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.challenges.CleanupExpired(cleanupCtx)
	if err != nil {
		cm.logger.Error("failed to cleanup expired challenges", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("expired challenge cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
