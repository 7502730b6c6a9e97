package adapters

import (
	"time"

	"feed-syncer/internal/core/config"
	"feed-syncer/internal/features/sync/domain"
)

// Per-store configuration keys.
const (
	keyImportFromDate            = "order_import_from_date"
	keySyncingFromDate           = "order_syncing_from_date"
	keyRefusalSyncingAction      = "order_refusal_syncing_action"
	keyCancellationSyncingAction = "order_cancellation_syncing_action"
	keyRefundSyncingAction       = "order_refund_syncing_action"
)

const configDateLayout = "2006-01-02"

// StoreConfigAdapter resolves the per-store sync policy from the store's
// key/value configuration, falling back to the application defaults.
type StoreConfigAdapter struct {
	defaults config.SyncConfig
	// now is injectable for tests.
	now func() time.Time
}

// NewStoreConfigAdapter creates a new instance of StoreConfigAdapter.
func NewStoreConfigAdapter(defaults config.SyncConfig) *StoreConfigAdapter {
	return &StoreConfigAdapter{
		defaults: defaults,
		now:      time.Now,
	}
}

// ImportFromDate is the date from which remote orders are importable.
func (a *StoreConfigAdapter) ImportFromDate(store *domain.Store) time.Time {
	return a.dateSetting(store, keyImportFromDate, a.defaults.ImportFromDays)
}

// SyncingFromDate is the date from which local orders are syncable.
func (a *StoreConfigAdapter) SyncingFromDate(store *domain.Store) time.Time {
	return a.dateSetting(store, keySyncingFromDate, a.defaults.SyncingFromDays)
}

// RefusalSyncingAction is the configured action for refused orders.
func (a *StoreConfigAdapter) RefusalSyncingAction(store *domain.Store) domain.SyncingAction {
	return a.actionSetting(store, keyRefusalSyncingAction, a.defaults.RefusalAction)
}

// CancellationSyncingAction is the configured action for cancelled orders.
func (a *StoreConfigAdapter) CancellationSyncingAction(store *domain.Store) domain.SyncingAction {
	return a.actionSetting(store, keyCancellationSyncingAction, a.defaults.CancellationAction)
}

// RefundSyncingAction is the configured action for refunded orders.
func (a *StoreConfigAdapter) RefundSyncingAction(store *domain.Store) domain.SyncingAction {
	return a.actionSetting(store, keyRefundSyncingAction, a.defaults.RefundAction)
}

// dateSetting reads a date from the store configuration, falling back to a
// rolling window of fallbackDays before now.
func (a *StoreConfigAdapter) dateSetting(store *domain.Store, key string, fallbackDays int) time.Time {
	if raw, ok := store.Configuration[key]; ok && raw != "" {
		if date, err := time.Parse(configDateLayout, raw); err == nil {
			return date
		}
	}
	return a.now().AddDate(0, 0, -fallbackDays)
}

// actionSetting reads a syncing action from the store configuration, keeping
// the application default when unset or unknown.
func (a *StoreConfigAdapter) actionSetting(store *domain.Store, key string, fallback string) domain.SyncingAction {
	raw, ok := store.Configuration[key]
	if !ok || raw == "" {
		return domain.SyncingAction(fallback)
	}
	switch action := domain.SyncingAction(raw); action {
	case domain.SyncingActionNone, domain.SyncingActionCancel, domain.SyncingActionRefund:
		return action
	}
	return domain.SyncingAction(fallback)
}
