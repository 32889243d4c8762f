package downloads

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"ytgrab/internal/contracts"
	"ytgrab/internal/domain/logger"
	"ytgrab/internal/models"
)

const (
	historyQueueSize    = 100
	historyWriteTimeout = 5 * time.Second
)

// HistoryTracker writes request records to a store off the request path.
//
// A nil *HistoryTracker is valid and records nothing.
type HistoryTracker struct {
	store   contracts.HistoryStore
	updates chan models.HistoryRecord
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	started atomic.Bool
}

// NewHistoryTracker returns a tracker writing to store.
func NewHistoryTracker(store contracts.HistoryStore) *HistoryTracker {
	return &HistoryTracker{
		store:   store,
		updates: make(chan models.HistoryRecord, historyQueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start starts history tracking.
func (t *HistoryTracker) Start(ctx context.Context) {
	if t == nil || !t.started.CompareAndSwap(false, true) {
		return
	}
	go t.processUpdates(ctx)
}

// Stop flushes queued records and stops tracking.
func (t *HistoryTracker) Stop() {
	if t == nil || !t.started.Load() {
		return
	}
	t.once.Do(func() { close(t.done) })
	<-t.stopped
}

// Record queues rec. It never blocks; records are dropped when the queue is full.
func (t *HistoryTracker) Record(rec models.HistoryRecord) {
	if t == nil {
		return
	}
	select {
	case t.updates <- rec:
	default:
		logger.Pl.W("History queue full, dropping record for %q", rec.URL)
	}
}

// processUpdates writes queued records until stopped.
func (t *HistoryTracker) processUpdates(ctx context.Context) {
	defer close(t.stopped)
	for {
		select {
		case <-t.done:
			t.drain()
			return
		case <-ctx.Done():
			t.drain()
			return
		case rec := <-t.updates:
			t.flush(rec)
		}
	}
}

func (t *HistoryTracker) drain() {
	for {
		select {
		case rec := <-t.updates:
			t.flush(rec)
		default:
			return
		}
	}
}

func (t *HistoryTracker) flush(rec models.HistoryRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()

	if _, err := t.store.AddRecord(ctx, &rec); err != nil {
		logger.Pl.E("Failed to write history record for %q: %v", rec.URL, err)
		return
	}
	logger.Pl.D(3, "Recorded %s %q -> %d", rec.Endpoint, rec.URL, rec.Status)
}
