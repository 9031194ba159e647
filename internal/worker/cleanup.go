package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpiredTokenStore deletes refresh tokens whose expiry has passed
type ExpiredTokenStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CleanupWorker periodically purges expired refresh tokens
type CleanupWorker struct {
	tokens   ExpiredTokenStore
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewCleanupWorker creates a new cleanup worker; now defaults to time.Now
func NewCleanupWorker(tokens ExpiredTokenStore, interval time.Duration, now func() time.Time) *CleanupWorker {
	if now == nil {
		now = time.Now
	}
	return &CleanupWorker{
		tokens:   tokens,
		interval: interval,
		now:      now,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start starts the cleanup loop in the background
func (w *CleanupWorker) Start() {
	zap.L().Info("starting cleanup worker", zap.Duration("interval", w.interval))

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.RunOnce(context.Background())
			case <-w.stopChan:
				zap.L().Info("stopping cleanup worker")
				return
			}
		}
	}()
}

// Stop stops the cleanup loop and waits for it to exit
func (w *CleanupWorker) Stop() {
	w.once.Do(func() {
		close(w.stopChan)
		<-w.done
	})
}

// RunOnce performs a single purge and returns the number of removed rows
func (w *CleanupWorker) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := w.tokens.DeleteExpired(ctx, w.now())
	if err != nil {
		zap.L().Error("failed to delete expired refresh tokens", zap.Error(err))
		return 0
	}

	if deleted > 0 {
		zap.L().Info("expired refresh tokens cleaned up", zap.Int64("deleted", deleted))
	}
	return deleted
}
