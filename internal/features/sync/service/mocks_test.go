package service

import (
	"context"
	"time"

	"feed-syncer/internal/features/sync/domain"
	"feed-syncer/internal/features/sync/ports"
)

// mockOrderAPI records listing filters and executed operations.
type mockOrderAPI struct {
	listFilters []domain.ListFilters
	listResult  []domain.RemoteOrder
	listErr     error
	executed    []domain.Operation
	executeFn   func(op domain.Operation) (*domain.OperationResult, error)
}

// ListOrders implements ports.OrderAPI.
func (m *mockOrderAPI) ListOrders(ctx context.Context, filters domain.ListFilters) ([]domain.RemoteOrder, error) {
	m.listFilters = append(m.listFilters, filters)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

// Execute implements ports.OrderAPI.
func (m *mockOrderAPI) Execute(ctx context.Context, op domain.Operation) (*domain.OperationResult, error) {
	m.executed = append(m.executed, op)
	if m.executeFn != nil {
		return m.executeFn(op)
	}
	return &domain.OperationResult{}, nil
}

// mockSessionProvider hands out a fixed OrderAPI and counts resolutions.
type mockSessionProvider struct {
	api   *mockOrderAPI
	err   error
	calls int
}

// StoreAPI implements ports.SessionProvider.
func (m *mockSessionProvider) StoreAPI(ctx context.Context, store *domain.Store) (ports.OrderAPI, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.api, nil
}

// mockOrderRepository records query specifications and answers via queryFn.
type mockOrderRepository struct {
	queries []domain.OrderQuery
	orders  []*domain.Order
	err     error
	queryFn func(q domain.OrderQuery) ([]*domain.Order, error)
}

// Query implements ports.OrderRepository.
func (m *mockOrderRepository) Query(ctx context.Context, q domain.OrderQuery) ([]*domain.Order, error) {
	m.queries = append(m.queries, q)
	if m.queryFn != nil {
		return m.queryFn(q)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.orders, nil
}

// mockTicketRepository records saved tickets.
type mockTicketRepository struct {
	saved []*domain.Ticket
	err   error
}

// Save implements ports.TicketRepository.
func (m *mockTicketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, ticket)
	return nil
}

// mockLogRepository records saved log entries.
type mockLogRepository struct {
	saved []*domain.LogEntry
	err   error
}

// Save implements ports.LogRepository.
func (m *mockLogRepository) Save(ctx context.Context, entry *domain.LogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, entry)
	return nil
}

// mockTrackCollector records bulk lookups and returns a fixed track map.
type mockTrackCollector struct {
	calls  [][]int64
	tracks map[int64][]domain.ShipmentTrack
	err    error
}

// TracksForSalesOrders implements ports.TrackCollector.
func (m *mockTrackCollector) TracksForSalesOrders(ctx context.Context, ids []int64) (map[int64][]domain.ShipmentTrack, error) {
	m.calls = append(m.calls, ids)
	if m.err != nil {
		return nil, m.err
	}
	return m.tracks, nil
}

// mockStoreConfig answers the sync policy from plain fields.
type mockStoreConfig struct {
	importFrom   time.Time
	syncingFrom  time.Time
	refusal      domain.SyncingAction
	cancellation domain.SyncingAction
	refund       domain.SyncingAction
}

// newMockStoreConfig returns a config with every syncing action disabled.
func newMockStoreConfig() *mockStoreConfig {
	return &mockStoreConfig{
		importFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		syncingFrom:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		refusal:      domain.SyncingActionNone,
		cancellation: domain.SyncingActionNone,
		refund:       domain.SyncingActionNone,
	}
}

func (m *mockStoreConfig) ImportFromDate(store *domain.Store) time.Time  { return m.importFrom }
func (m *mockStoreConfig) SyncingFromDate(store *domain.Store) time.Time { return m.syncingFrom }
func (m *mockStoreConfig) RefusalSyncingAction(store *domain.Store) domain.SyncingAction {
	return m.refusal
}
func (m *mockStoreConfig) CancellationSyncingAction(store *domain.Store) domain.SyncingAction {
	return m.cancellation
}
func (m *mockStoreConfig) RefundSyncingAction(store *domain.Store) domain.SyncingAction {
	return m.refund
}

// testEnv bundles a SyncService with all its mocked collaborators.
type testEnv struct {
	svc      *SyncService
	api      *mockOrderAPI
	sessions *mockSessionProvider
	config   *mockStoreConfig
	orders   *mockOrderRepository
	tickets  *mockTicketRepository
	logs     *mockLogRepository
	tracks   *mockTrackCollector
}

func newTestEnv() *testEnv {
	api := &mockOrderAPI{}
	env := &testEnv{
		api:      api,
		sessions: &mockSessionProvider{api: api},
		config:   newMockStoreConfig(),
		orders:   &mockOrderRepository{},
		tickets:  &mockTicketRepository{},
		logs:     &mockLogRepository{},
		tracks:   &mockTrackCollector{},
	}
	env.svc = NewSyncService(env.sessions, env.config, env.orders, env.tickets, env.logs, env.tracks)
	return env
}

func testStore() *domain.Store {
	return &domain.Store{
		ID:       1,
		FeedID:   1001,
		Name:     "main",
		APIToken: "token",
	}
}
