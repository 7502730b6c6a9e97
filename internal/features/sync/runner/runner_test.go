package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"feed-syncer/internal/features/sync/domain"

	"github.com/stretchr/testify/assert"
)

type mockStoreRepository struct {
	stores []*domain.Store
	err    error
}

func (m *mockStoreRepository) ActiveStores(ctx context.Context) ([]*domain.Store, error) {
	return m.stores, m.err
}

type mockLocker struct {
	denied   map[int64]bool
	err      error
	acquired []int64
	released []int64
}

func (m *mockLocker) Acquire(ctx context.Context, storeID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.denied[storeID] {
		return false, nil
	}
	m.acquired = append(m.acquired, storeID)
	return true, nil
}

func (m *mockLocker) Release(ctx context.Context, storeID int64) error {
	m.released = append(m.released, storeID)
	return nil
}

type mockSyncer struct {
	mu     sync.Mutex
	synced []int64
	errFor map[int64]error
}

func (m *mockSyncer) NotifyAllUpdates(ctx context.Context, store *domain.Store) error {
	m.mu.Lock()
	m.synced = append(m.synced, store.ID)
	m.mu.Unlock()
	return m.errFor[store.ID]
}

func (m *mockSyncer) syncedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.synced)
}

func twoStores() []*domain.Store {
	return []*domain.Store{
		{ID: 1, FeedID: 100, Name: "first"},
		{ID: 2, FeedID: 200, Name: "second"},
	}
}

// TestRunOnce verifies that every active store is synchronized under its lock.
func TestRunOnce(t *testing.T) {
	locker := &mockLocker{}
	syncer := &mockSyncer{}
	r := New(&mockStoreRepository{stores: twoStores()}, locker, syncer, time.Minute)

	r.RunOnce(context.Background())

	assert.Equal(t, []int64{1, 2}, syncer.synced)
	assert.Equal(t, []int64{1, 2}, locker.acquired)
	assert.Equal(t, []int64{1, 2}, locker.released)
}

// TestRunOnce_LockDenied verifies that a store whose lock is held elsewhere
// is skipped without being released.
func TestRunOnce_LockDenied(t *testing.T) {
	locker := &mockLocker{denied: map[int64]bool{1: true}}
	syncer := &mockSyncer{}
	r := New(&mockStoreRepository{stores: twoStores()}, locker, syncer, time.Minute)

	r.RunOnce(context.Background())

	assert.Equal(t, []int64{2}, syncer.synced)
	assert.Equal(t, []int64{2}, locker.released)
}

// TestRunOnce_SyncFailure verifies that a failing store still releases its
// lock and does not block the remaining stores.
func TestRunOnce_SyncFailure(t *testing.T) {
	locker := &mockLocker{}
	syncer := &mockSyncer{errFor: map[int64]error{1: errors.New("boom")}}
	r := New(&mockStoreRepository{stores: twoStores()}, locker, syncer, time.Minute)

	r.RunOnce(context.Background())

	assert.Equal(t, []int64{1, 2}, syncer.synced)
	assert.Equal(t, []int64{1, 2}, locker.released)
}

// TestRunOnce_StoreListFailure verifies that nothing runs when the store list
// cannot be fetched.
func TestRunOnce_StoreListFailure(t *testing.T) {
	locker := &mockLocker{}
	syncer := &mockSyncer{}
	r := New(&mockStoreRepository{err: errors.New("db down")}, locker, syncer, time.Minute)

	r.RunOnce(context.Background())

	assert.Empty(t, syncer.synced)
	assert.Empty(t, locker.acquired)
}

// TestRun_StopsOnCancel verifies that Run performs the initial pass and stops
// once the context is cancelled.
func TestRun_StopsOnCancel(t *testing.T) {
	locker := &mockLocker{}
	syncer := &mockSyncer{}
	r := New(&mockStoreRepository{stores: twoStores()}, locker, syncer, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// The initial pass runs before the first tick.
	assert.Eventually(t, func() bool { return syncer.syncedCount() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}
