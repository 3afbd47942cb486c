package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cryptopulse/backend/internal/usecase"
	"go.uber.org/zap"
)

// Runner owns the two periodic jobs: the notification dispatch loop and
// the price refresh. One run of a job never overlaps the next; each tick
// is processed to completion before the ticker is consulted again.
type Runner struct {
	dispatcher *usecase.Dispatcher
	refresher  *usecase.PriceRefresher
	logger     *zap.Logger

	dispatchEvery time.Duration
	refreshEvery  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(dispatcher *usecase.Dispatcher, refresher *usecase.PriceRefresher, dispatchEvery, refreshEvery time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		dispatcher:    dispatcher,
		refresher:     refresher,
		logger:        logger,
		dispatchEvery: dispatchEvery,
		refreshEvery:  refreshEvery,
	}
}

func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	jobCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		r.run(jobCtx)
	}()
}

func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		r.logger.Warn("timeout waiting for scheduler to stop")
	}
}

func (r *Runner) run(ctx context.Context) {
	// Seed the snapshots once at startup so dispatches before the first
	// refresh tick do not degrade to placeholder content.
	if _, err := r.refresher.RefreshAll(ctx); err != nil {
		r.logger.Error("initial price refresh failed", zap.Error(err))
	}

	dispatchTicker := time.NewTicker(r.dispatchEvery)
	defer dispatchTicker.Stop()
	refreshTicker := time.NewTicker(r.refreshEvery)
	defer refreshTicker.Stop()

	r.logger.Info(
		"scheduler started",
		zap.Duration("dispatch_every", r.dispatchEvery),
		zap.Duration("refresh_every", r.refreshEvery),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopping")
			return
		case <-dispatchTicker.C:
			if _, err := r.dispatcher.RunOnce(ctx); err != nil {
				// Job-level failure: nothing dispatched this run, retried
				// on the next tick.
				r.logger.Error("dispatch run failed", zap.Error(err))
			}
		case <-refreshTicker.C:
			if _, err := r.refresher.RefreshAll(ctx); err != nil {
				r.logger.Error("price refresh failed", zap.Error(err))
			}
		}
	}
}
