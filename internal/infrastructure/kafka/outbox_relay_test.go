package kafka_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devflexlabs/flex-analise-backend/internal/infrastructure/kafka"
	"github.com/devflexlabs/flex-analise-backend/pkg/events"
)

type mockOutboxStore struct {
	mu         sync.Mutex
	pending    []events.OutboxEntry
	fetchErr   error
	markErr    error
	markedIDs  []uuid.UUID
	fetchCalls int
}

func (m *mockOutboxStore) Store(_ context.Context, entries []events.OutboxEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, entries...)
	return nil
}

func (m *mockOutboxStore) FetchUnpublished(_ context.Context, batchSize int) ([]events.OutboxEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	n := min(batchSize, len(m.pending))
	out := make([]events.OutboxEntry, n)
	copy(out, m.pending[:n])
	return out, nil
}

func (m *mockOutboxStore) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	m.markedIDs = append(m.markedIDs, ids...)
	marked := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	kept := m.pending[:0]
	for _, e := range m.pending {
		if !marked[e.ID] {
			kept = append(kept, e)
		}
	}
	m.pending = kept
	return nil
}

func (m *mockOutboxStore) markedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.markedIDs)
}

type mockEntryPublisher struct {
	mu        sync.Mutex
	err       error
	published []events.OutboxEntry
}

func (m *mockEntryPublisher) PublishEntries(_ context.Context, entries ...events.OutboxEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, entries...)
	return nil
}

func pendingEntries(n int) []events.OutboxEntry {
	out := make([]events.OutboxEntry, n)
	for i := range out {
		out[i] = newEntry(uuid.New(), "contract_analysis.recalculated")
	}
	return out
}

func TestOutboxRelay_RelayOnce(t *testing.T) {
	t.Run("publishes then marks", func(t *testing.T) {
		store := &mockOutboxStore{pending: pendingEntries(3)}
		pub := &mockEntryPublisher{}
		relay := kafka.NewOutboxRelay(store, pub, time.Second, 10, nil)

		n, err := relay.RelayOnce(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Len(t, pub.published, 3)
		assert.Len(t, store.markedIDs, 3)
		assert.Empty(t, store.pending)
	})

	t.Run("empty outbox", func(t *testing.T) {
		store := &mockOutboxStore{}
		pub := &mockEntryPublisher{}

		n, err := kafka.NewOutboxRelay(store, pub, time.Second, 10, nil).RelayOnce(context.Background())

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, pub.published)
	})

	t.Run("leaves entries pending when publish fails", func(t *testing.T) {
		store := &mockOutboxStore{pending: pendingEntries(2)}
		pub := &mockEntryPublisher{err: errors.New("broker down")}

		_, err := kafka.NewOutboxRelay(store, pub, time.Second, 10, nil).RelayOnce(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
		assert.Empty(t, store.markedIDs)
		assert.Len(t, store.pending, 2)
	})

	t.Run("wraps fetch errors", func(t *testing.T) {
		store := &mockOutboxStore{fetchErr: errors.New("timeout")}

		_, err := kafka.NewOutboxRelay(store, &mockEntryPublisher{}, time.Second, 10, nil).RelayOnce(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch unpublished")
	})

	t.Run("wraps mark errors", func(t *testing.T) {
		store := &mockOutboxStore{pending: pendingEntries(1), markErr: errors.New("conn closed")}
		pub := &mockEntryPublisher{}

		_, err := kafka.NewOutboxRelay(store, pub, time.Second, 10, nil).RelayOnce(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "mark published")
		assert.Len(t, pub.published, 1)
	})
}

func TestOutboxRelay_Run(t *testing.T) {
	store := &mockOutboxStore{pending: pendingEntries(5)}
	pub := &mockEntryPublisher{}
	relay := kafka.NewOutboxRelay(store, pub, 10*time.Millisecond, 2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool { return store.markedCount() == 5 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}
