// Package runner drives the periodic marketplace synchronization of every
// active store, guarded by a distributed per-store run lock.
package runner

import (
	"context"
	"time"

	"feed-syncer/internal/core/logger"
	"feed-syncer/internal/features/sync/domain"
	"feed-syncer/internal/features/sync/ports"

	"go.uber.org/zap"
)

// Locker serializes runs of one store across processes.
type Locker interface {
	// Acquire takes the run lock of a store, reporting false when held elsewhere.
	Acquire(ctx context.Context, storeID int64) (bool, error)
	// Release frees the run lock of a store.
	Release(ctx context.Context, storeID int64) error
}

// Syncer pushes every pending order notification of one store.
type Syncer interface {
	NotifyAllUpdates(ctx context.Context, store *domain.Store) error
}

// Runner schedules store synchronization at a fixed interval.
type Runner struct {
	stores   ports.StoreRepository
	locker   Locker
	syncer   Syncer
	interval time.Duration
	log      *zap.Logger
}

// New creates a new Runner.
func New(stores ports.StoreRepository, locker Locker, syncer Syncer, interval time.Duration) *Runner {
	return &Runner{
		stores:   stores,
		locker:   locker,
		syncer:   syncer,
		interval: interval,
		log:      logger.Named("runner"),
	}
}

// Run synchronizes all stores immediately and then at every interval tick,
// until the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Runner stopping", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce synchronizes every active store. A failing store is logged and
// never blocks the remaining stores.
func (r *Runner) RunOnce(ctx context.Context) {
	stores, err := r.stores.ActiveStores(ctx)
	if err != nil {
		r.log.Error("Failed to list active stores", zap.Error(err))
		return
	}

	for _, store := range stores {
		if ctx.Err() != nil {
			return
		}
		r.syncStore(ctx, store)
	}
}

// syncStore runs one store under its run lock.
func (r *Runner) syncStore(ctx context.Context, store *domain.Store) {
	acquired, err := r.locker.Acquire(ctx, store.ID)
	if err != nil {
		r.log.Error("Failed to acquire run lock",
			zap.Int64("store_id", store.ID), zap.Error(err))
		return
	}
	if !acquired {
		r.log.Debug("Run lock held elsewhere, skipping store",
			zap.Int64("store_id", store.ID))
		return
	}
	defer func() {
		if err := r.locker.Release(ctx, store.ID); err != nil {
			r.log.Error("Failed to release run lock",
				zap.Int64("store_id", store.ID), zap.Error(err))
		}
	}()

	if err := r.syncer.NotifyAllUpdates(ctx, store); err != nil {
		r.log.Error("Store synchronization failed",
			zap.Int64("store_id", store.ID),
			zap.String("store", store.Name),
			zap.Error(err))
		return
	}

	r.log.Info("Store synchronized",
		zap.Int64("store_id", store.ID),
		zap.String("store", store.Name))
}
