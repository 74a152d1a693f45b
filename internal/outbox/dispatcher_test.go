package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

// mockOutboxRepo is an in-memory OutboxRepository. failOnce makes the next
// Dispatch of the given event id fail.
type mockOutboxRepo struct {
	mu       sync.Mutex
	pending  []domain.OutboxEvent
	done     []domain.OutboxEvent
	failOnce map[string]bool
}

func newMockOutboxRepo() *mockOutboxRepo {
	return &mockOutboxRepo{failOnce: make(map[string]bool)}
}

func (m *mockOutboxRepo) stage(adminID int64, message string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	event := domain.OutboxEvent{
		ID:        uuid.NewString(),
		AdminID:   adminID,
		Message:   message,
		CreatedAt: time.Now(),
	}
	m.pending = append(m.pending, event)
	return event.ID
}

func (m *mockOutboxRepo) PendingEvents(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.pending)
	if n > limit {
		n = limit
	}
	out := make([]domain.OutboxEvent, n)
	copy(out, m.pending[:n])
	return out, nil
}

func (m *mockOutboxRepo) Dispatch(ctx context.Context, event domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOnce[event.ID] {
		delete(m.failOnce, event.ID)
		return errors.New("dispatch unavailable")
	}
	for i := range m.pending {
		if m.pending[i].ID == event.ID {
			now := time.Now()
			event.DispatchedAt = &now
			m.done = append(m.done, event)
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockOutboxRepo) counts() (pending, done int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending), len(m.done)
}

func TestDrain_DispatchesPendingEvents(t *testing.T) {
	repo := newMockOutboxRepo()
	repo.stage(1, "first")
	repo.stage(1, "second")
	repo.stage(2, "third")

	d := NewDispatcher(repo, nil, time.Second, 10)
	d.drain(context.Background())

	pending, done := repo.counts()
	if pending != 0 || done != 3 {
		t.Errorf("expected 0 pending / 3 dispatched, got %d / %d", pending, done)
	}
}

func TestDrain_FailedEventStaysPending(t *testing.T) {
	repo := newMockOutboxRepo()
	repo.stage(1, "ok before")
	badID := repo.stage(1, "fails once")
	repo.stage(1, "ok after")
	repo.failOnce[badID] = true

	d := NewDispatcher(repo, nil, time.Second, 10)
	d.drain(context.Background())

	pending, done := repo.counts()
	if pending != 1 || done != 2 {
		t.Fatalf("expected 1 pending / 2 dispatched after failure, got %d / %d", pending, done)
	}

	// Next tick picks the failed event up again.
	d.drain(context.Background())
	pending, done = repo.counts()
	if pending != 0 || done != 3 {
		t.Errorf("expected retry to clear the backlog, got %d pending / %d dispatched", pending, done)
	}
}

func TestDrain_HonorsBatchSize(t *testing.T) {
	repo := newMockOutboxRepo()
	for i := 0; i < 5; i++ {
		repo.stage(1, "event")
	}

	d := NewDispatcher(repo, nil, time.Second, 2)
	d.drain(context.Background())

	pending, done := repo.counts()
	if pending != 3 || done != 2 {
		t.Errorf("expected batch of 2, got %d pending / %d dispatched", pending, done)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	repo := newMockOutboxRepo()
	d := NewDispatcher(repo, nil, 5*time.Millisecond, 10)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(stopped)
	}()

	repo.stage(1, "ping")
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}

	if pending, done := repo.counts(); pending != 0 || done != 1 {
		t.Errorf("expected staged event to be dispatched before stop, got %d pending / %d dispatched", pending, done)
	}
}
