package service

import (
	"context"
	"fmt"
	"strings"

	"feed-syncer/internal/features/sync/domain"
	"feed-syncer/internal/features/sync/ports"
)

// SyncService reconciles order state between the commerce backend and the
// marketplace: it decides which orders need importing or status pushes, and
// performs the acknowledgement handshakes.
type SyncService struct {
	sessions ports.SessionProvider
	config   ports.StoreConfig
	orders   ports.OrderRepository
	tickets  ports.TicketRepository
	logs     ports.LogRepository
	tracks   ports.TrackCollector
}

// NewSyncService creates a new SyncService wired to its collaborators.
func NewSyncService(
	sessions ports.SessionProvider,
	config ports.StoreConfig,
	orders ports.OrderRepository,
	tickets ports.TicketRepository,
	logs ports.LogRepository,
	tracks ports.TrackCollector,
) *SyncService {
	return &SyncService{
		sessions: sessions,
		config:   config,
		orders:   orders,
		tickets:  tickets,
		logs:     logs,
		tracks:   tracks,
	}
}

// SyncableStatuses returns the marketplace statuses the store actively syncs:
// those of refused/cancelled/refunded whose configured action is not "none".
// An empty result means nothing is synced for the store.
func (s *SyncService) SyncableStatuses(store *domain.Store) []domain.Status {
	statusActions := []struct {
		status domain.Status
		action domain.SyncingAction
	}{
		{domain.StatusRefused, s.config.RefusalSyncingAction(store)},
		{domain.StatusCancelled, s.config.CancellationSyncingAction(store)},
		{domain.StatusRefunded, s.config.RefundSyncingAction(store)},
	}

	var statuses []domain.Status
	for _, sa := range statusActions {
		if sa.action != domain.SyncingActionNone {
			statuses = append(statuses, sa.status)
		}
	}

	return statuses
}

// ImportableRemoteOrders lists the unacknowledged marketplace orders created
// since the store's import-from date.
func (s *SyncService) ImportableRemoteOrders(ctx context.Context, store *domain.Store) ([]domain.RemoteOrder, error) {
	api, err := s.sessions.StoreAPI(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("resolve store %d API session: %w", store.ID, err)
	}

	return api.ListOrders(ctx, domain.ListFilters{
		Acknowledgement: domain.Unacknowledged,
		Since:           s.config.ImportFromDate(store),
	})
}

// ImportableRemoteOrderByReference finds the single unacknowledged marketplace
// order with the given channel and reference. When zero or several remote
// orders carry the reference, no order is returned: an ambiguous match must
// never be imported.
func (s *SyncService) ImportableRemoteOrderByReference(
	ctx context.Context,
	store *domain.Store,
	channelID int64,
	reference string,
) (*domain.RemoteOrder, error) {
	if channelID == 0 || strings.TrimSpace(reference) == "" {
		return nil, nil
	}

	api, err := s.sessions.StoreAPI(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("resolve store %d API session: %w", store.ID, err)
	}

	orders, err := api.ListOrders(ctx, domain.ListFilters{
		Acknowledgement: domain.Unacknowledged,
		ChannelID:       channelID,
		Reference:       strings.TrimSpace(reference),
	})
	if err != nil {
		return nil, err
	}

	var single *domain.RemoteOrder

	for i := range orders {
		if orders[i].Reference != reference {
			continue
		}
		if single != nil {
			return nil, nil
		}
		single = &orders[i]
	}

	return single, nil
}

// ImportableOrders lists the local orders still awaiting import for the store,
// restricted to the import-from date and optionally to the first limit items.
func (s *SyncService) ImportableOrders(ctx context.Context, store *domain.Store, limit int) ([]*domain.Order, error) {
	q := domain.OrderQuery{
		StoreID:     store.ID,
		NonImported: true,
		Importable:  true,
		CreatedFrom: s.config.ImportFromDate(store),
	}

	if limit > 0 {
		q.Page = 1
		q.PageSize = limit
	}

	return s.orders.Query(ctx, q)
}

// SyncableRemoteOrders lists the acknowledged marketplace orders in a syncable
// status since the store's syncing-from date. When no status is syncable, no
// listing call is made.
func (s *SyncService) SyncableRemoteOrders(ctx context.Context, store *domain.Store) ([]domain.RemoteOrder, error) {
	statuses := s.SyncableStatuses(store)
	if len(statuses) == 0 {
		return nil, nil
	}

	api, err := s.sessions.StoreAPI(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("resolve store %d API session: %w", store.ID, err)
	}

	return api.ListOrders(ctx, domain.ListFilters{
		Statuses:        statuses,
		Acknowledgement: domain.Acknowledged,
		Since:           s.config.SyncingFromDate(store),
	})
}

// SyncableOrders lists the imported local orders whose marketplace status is
// syncable for the store, optionally limited to the first limit items.
func (s *SyncService) SyncableOrders(ctx context.Context, store *domain.Store, limit int) ([]*domain.Order, error) {
	statuses := s.SyncableStatuses(store)
	if len(statuses) == 0 {
		return nil, nil
	}

	q := domain.OrderQuery{
		StoreID:     store.ID,
		Imported:    true,
		Statuses:    statuses,
		CreatedFrom: s.config.SyncingFromDate(store),
	}

	if limit > 0 {
		q.Page = 1
		q.PageSize = limit
	}

	return s.orders.Query(ctx, q)
}

// NotifiableImports lists the orders whose import has not been acknowledged yet.
func (s *SyncService) NotifiableImports(ctx context.Context, store *domain.Store) ([]*domain.Order, error) {
	return s.orders.Query(ctx, domain.OrderQuery{
		StoreID:          store.ID,
		NotifiableImport: true,
	})
}

// NotifiableCancellations lists the orders whose cancellation has not been
// notified yet.
func (s *SyncService) NotifiableCancellations(ctx context.Context, store *domain.Store) ([]*domain.Order, error) {
	return s.orders.Query(ctx, domain.OrderQuery{
		StoreID:                store.ID,
		NotifiableCancellation: true,
	})
}

// NotifiableShipments lists the orders whose shipment has not been notified
// yet, excluding marketplace-fulfilled orders.
func (s *SyncService) NotifiableShipments(ctx context.Context, store *domain.Store) ([]*domain.Order, error) {
	notFulfilled := false

	return s.orders.Query(ctx, domain.OrderQuery{
		StoreID:            store.ID,
		Fulfilled:          &notFulfilled,
		NotifiableShipment: true,
	})
}
