package ports

import (
	"context"
	"errors"
	"time"

	"feed-syncer/internal/features/sync/domain"
)

// ErrCouldNotSave marks a repository persistence failure. In the
// acknowledgement path it is the trigger for the compensating unacknowledge.
var ErrCouldNotSave = errors.New("could not save")

// OrderAPI exposes the marketplace order endpoints of one store session.
// This is a Secondary Port (Driven Port).
type OrderAPI interface {
	// ListOrders returns the marketplace orders matching the filters.
	ListOrders(ctx context.Context, filters domain.ListFilters) ([]domain.RemoteOrder, error)
	// Execute runs a single order operation and returns its receipts.
	Execute(ctx context.Context, op domain.Operation) (*domain.OperationResult, error)
}

// SessionProvider resolves a store to an authenticated marketplace API handle.
// The handle's lifetime is scoped to the call; no session state is shared.
type SessionProvider interface {
	StoreAPI(ctx context.Context, store *domain.Store) (OrderAPI, error)
}

// OrderRepository reads the local marketplace-order mirror.
type OrderRepository interface {
	// Query returns the orders matching an immutable query specification,
	// ordered by local identifier.
	Query(ctx context.Context, q domain.OrderQuery) ([]*domain.Order, error)
}

// TicketRepository persists marketplace tickets.
type TicketRepository interface {
	// Save persists a ticket, failing with ErrCouldNotSave on storage errors.
	Save(ctx context.Context, ticket *domain.Ticket) error
}

// LogRepository persists order log entries.
type LogRepository interface {
	// Save persists a log entry, failing with ErrCouldNotSave on storage errors.
	Save(ctx context.Context, entry *domain.LogEntry) error
}

// TrackCollector looks up shipment tracks recorded against sales orders.
type TrackCollector interface {
	// TracksForSalesOrders returns the tracks of each given sales order,
	// keyed by sales order id. Orders without tracks are absent from the map.
	TracksForSalesOrders(ctx context.Context, salesOrderIDs []int64) (map[int64][]domain.ShipmentTrack, error)
}

// StoreConfig resolves the per-store sync policy.
type StoreConfig interface {
	// ImportFromDate is the date from which remote orders are importable.
	ImportFromDate(store *domain.Store) time.Time
	// SyncingFromDate is the date from which orders are syncable.
	SyncingFromDate(store *domain.Store) time.Time
	// RefusalSyncingAction is the configured action for refused orders.
	RefusalSyncingAction(store *domain.Store) domain.SyncingAction
	// CancellationSyncingAction is the configured action for cancelled orders.
	CancellationSyncingAction(store *domain.Store) domain.SyncingAction
	// RefundSyncingAction is the configured action for refunded orders.
	RefundSyncingAction(store *domain.Store) domain.SyncingAction
}

// StoreRepository lists the stores the scheduler drives.
type StoreRepository interface {
	ActiveStores(ctx context.Context) ([]*domain.Store, error)
}
