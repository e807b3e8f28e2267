package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Pavan-folder/Chatbot-contentstack/internal/domain"
)

// Recorder serializes writes to the store through a bounded queue. Record
// calls never block the caller: when the queue is full the record is dropped
// and counted. Persistence failures are logged and swallowed; they must
// never surface to a chat response.
type Recorder struct {
	store  *Store
	queue  chan func(context.Context)
	logger *slog.Logger

	dropped atomic.Int64
	wg      sync.WaitGroup
}

// NewRecorder starts the drain goroutine. Close must be called to flush
// pending records on shutdown.
func NewRecorder(store *Store, queueSize int, logger *slog.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &Recorder{
		store:  store,
		queue:  make(chan func(context.Context), queueSize),
		logger: logger,
	}

	r.wg.Add(1)
	go r.drain()

	return r
}

func (r *Recorder) drain() {
	defer r.wg.Done()
	for job := range r.queue {
		job(context.Background())
	}
}

// Record enqueues one chat outcome.
func (r *Recorder) Record(outcome domain.ChatOutcome) {
	rec := &RequestRecord{
		ID:             uuid.NewString(),
		Provider:       outcome.Provider,
		Model:          outcome.Model,
		Query:          outcome.Query,
		ResponseTimeMs: outcome.ResponseTimeMs,
		Tokens:         outcome.TokensApprox,
		Success:        outcome.Success,
		CreatedAt:      time.Now().UTC(),
	}

	r.enqueue(func(ctx context.Context) {
		if err := r.store.InsertRequest(ctx, rec); err != nil {
			r.logger.Warn("analytics write failed", slog.String("error", err.Error()))
		}
	})

	if !outcome.Success {
		r.RecordError(outcome.Provider, outcome.ErrContext, "request failed")
	}
}

// RecordError enqueues one failure record.
func (r *Recorder) RecordError(provider, errContext, message string) {
	rec := &ErrorRecord{
		ID:        uuid.NewString(),
		Provider:  provider,
		Context:   errContext,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	r.enqueue(func(ctx context.Context) {
		if err := r.store.InsertError(ctx, rec); err != nil {
			r.logger.Warn("analytics error write failed", slog.String("error", err.Error()))
		}
	})
}

func (r *Recorder) enqueue(job func(context.Context)) {
	select {
	case r.queue <- job:
	default:
		if n := r.dropped.Add(1); n%100 == 1 {
			r.logger.Warn("analytics queue full, dropping records",
				slog.Int64("droppedTotal", n))
		}
	}
}

// Dropped returns the number of records discarded due to a full queue.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Summary reads the aggregate view from the store.
func (r *Recorder) Summary(ctx context.Context) (*Summary, error) {
	return r.store.Summary(ctx)
}

// Close stops accepting records, flushes the queue, and waits for the drain
// goroutine to finish. The underlying store remains open.
func (r *Recorder) Close() {
	close(r.queue)
	r.wg.Wait()
}
