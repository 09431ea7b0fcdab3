package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"volunteerHub/internal/logger"
)

const defaultRecountInterval = 10 * time.Minute

// LikeRecounter rewrites drifted like counters and reports how many it fixed.
type LikeRecounter interface {
	RecountLikes(ctx context.Context) (int, error)
}

type LikeWorker struct {
	repo     LikeRecounter
	interval time.Duration
}

// NewLikeWorker uses a ten minute interval when interval is nil.
func NewLikeWorker(repo LikeRecounter, interval *time.Duration) *LikeWorker {
	intervalToSet := defaultRecountInterval
	if interval != nil {
		intervalToSet = *interval
	}

	return &LikeWorker{
		repo:     repo,
		interval: intervalToSet,
	}
}

func (w *LikeWorker) Enabled() bool {
	return w.interval > 0
}

// Start blocks until ctx is cancelled. A worker with a non-positive interval
// returns immediately.
func (w *LikeWorker) Start(ctx context.Context) {
	if !w.Enabled() {
		logger.Info("Worker: like recount disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: like recount started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: like recount stopping")
			return
		}
	}
}

// Check runs one recount pass and returns the number of repaired posts.
func (w *LikeWorker) Check(ctx context.Context) int {
	start := time.Now()

	fixed, err := w.repo.RecountLikes(ctx)
	if err != nil {
		logger.Warn("Worker: like recount failed", zap.Error(err))
		return 0
	}

	logger.Info("Worker: like recount finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("repaired", fixed))
	return fixed
}
