package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// collectingService gathers processed entries across workers.
type collectingService struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (s *collectingService) Process(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *collectingService) snapshot() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEntry(nil), s.entries...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestDispatcher_ProcessesAllEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &collectingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(ctx)

	for i := 0; i < 50; i++ {
		d.Record(domain.AuditEntry{
			Action:   domain.AuditPatientUpdated,
			EntityID: "patient-" + string(rune('a'+i%7)),
			At:       time.Now(),
		})
	}

	waitFor(t, func() bool { return len(svc.snapshot()) == 50 })
}

func TestDispatcher_SameEntitySameWorker(t *testing.T) {
	d := NewDispatcher(4, &collectingService{}, zerolog.Nop())

	first := d.shardIndex("patient-xyz")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("patient-xyz"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}

// freshContextService fails if an entry is processed under an already
// cancelled context, as happens when drained entries reuse the worker
// context instead of getting their own deadline.
type freshContextService struct {
	collectingService
}

func (s *freshContextService) Process(ctx context.Context, entry domain.AuditEntry) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.collectingService.Process(ctx, entry)
}

func TestDispatcher_ShutdownDrainsQueuedEntries(t *testing.T) {
	svc := &freshContextService{}
	d := NewDispatcher(2, svc, zerolog.Nop())

	for i := 0; i < 20; i++ {
		d.Record(domain.AuditEntry{
			Action:   domain.AuditPatientCreated,
			EntityID: "patient-" + string(rune('a'+i%5)),
			At:       time.Now(),
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)

	waitFor(t, func() bool { return len(svc.snapshot()) == 20 })
}

func TestDispatcher_RecordAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, &collectingService{}, zerolog.Nop())
	d.Start(ctx)

	cancel()
	waitFor(t, func() bool {
		select {
		case <-d.stopped:
			return true
		default:
			return false
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2*channelBuffer; i++ {
			d.Record(domain.AuditEntry{Action: domain.AuditAdminCreated, EntityID: "user-1", At: time.Now()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked after shutdown")
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &collectingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
