package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/core/domain"
	"github.com/peerlend/loan-tracker/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// ErrDispatcherClosed is returned by InsertEvent after Stop.
var ErrDispatcherClosed = errors.New("audit dispatcher closed")

// AuditDispatcher writes loan events to a backing repository from a fixed set
// of workers. Events are sharded by loan id so each loan's trail keeps its
// order. It satisfies ports.LoanEventRepository.
type AuditDispatcher struct {
	workers []chan *domain.LoanEvent
	repo    ports.LoanEventRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.LoanEventRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan *domain.LoanEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.LoanEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Stop has drained
// their queue.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// InsertEvent queues event for the worker owning its loan id. It blocks only
// while that worker's buffer is full.
func (d *AuditDispatcher) InsertEvent(ctx context.Context, event *domain.LoanEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.workers[d.shardIndex(event.LoanID)] <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop closes the queues and waits for pending events to be written or for
// ctx to expire.
func (d *AuditDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a loan id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(loanID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(loanID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan *domain.LoanEvent) {
	defer d.wg.Done()
	for event := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.repo.InsertEvent(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("loan_id", event.LoanID).
				Str("action", string(event.Action)).
				Int("worker_id", id).
				Msg("audit event write failed")
		}
		cancel()
	}
}
