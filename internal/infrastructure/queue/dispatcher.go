package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/api/metrics"
	"github.com/nagrathcare/clinic-api/internal/core/domain"
	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256

	// drainTimeout bounds the final writes after shutdown begins. The
	// request context is already cancelled by then, so drained entries
	// get their own short deadline.
	drainTimeout = 5 * time.Second
)

// Dispatcher routes audit entries to a fixed set of workers using consistent
// hashing on the entity id, guaranteeing per-entity write ordering. Losing
// an entry never fails the originating request; failures are logged.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	service ports.AuditService
	log     zerolog.Logger
	stopped chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		service: service,
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled the dispatcher
// stops accepting entries, and each worker drains what is already queued
// before exiting.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Record enqueues an entry for the worker responsible for its entity.
// Entries arriving after shutdown are dropped rather than blocking the
// caller on a queue nobody reads anymore.
func (d *Dispatcher) Record(entry domain.AuditEntry) {
	idx := d.shardIndex(entry.EntityID)
	select {
	case <-d.stopped:
		d.log.Warn().
			Str("entity_id", entry.EntityID).
			Str("action", entry.Action).
			Msg("audit entry dropped, dispatcher stopped")
	case d.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	}
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(worker, id, ch)
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if ctx.Err() != nil {
				// Shutdown raced the receive; this entry belongs to
				// the drain too.
				d.drain(worker, id, ch, entry)
				return
			}
			d.process(ctx, id, entry)
		}
	}
}

// drain flushes pending and still-buffered entries under a fresh deadline,
// since the worker context is already cancelled at shutdown.
func (d *Dispatcher) drain(worker string, id int, ch <-chan domain.AuditEntry, pending ...domain.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for _, entry := range pending {
		d.process(ctx, id, entry)
	}
	for {
		select {
		case entry := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			d.process(ctx, id, entry)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, entry domain.AuditEntry) {
	if err := d.service.Process(ctx, entry); err != nil {
		d.log.Error().Err(err).
			Str("entity_id", entry.EntityID).
			Str("action", entry.Action).
			Int("worker_id", id).
			Msg("audit entry processing failed")
	}
}
