// Package worker applies queued feedback events to the profile
// signal and exposure stores.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/rove/internal/adapters/mq/queue"
	"github.com/okian/rove/internal/domain/model"
	"github.com/okian/rove/pkg/logger"
	"github.com/okian/rove/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Event is what workers read off the queue.
type Event = queue.Event

// Applier folds one feedback signal into the user's profile.
type Applier interface {
	ApplyFeedback(ctx context.Context, userID, venueID string, category model.Category, accepted bool) error
}

// Excluder records permanent venue exclusions for declined feedback.
type Excluder interface {
	MarkDeclined(ctx context.Context, userID, venueID string)
}

// Eventer defines how workers receive events.
type Eventer interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker consumes feedback events until stopped.
type Worker struct {
	queue    Eventer
	applier  Applier
	excluder Excluder
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName names the worker for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Eventer, applier Applier, excluder Excluder, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		applier:  applier,
		excluder: excluder,
		name:     "feedback-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run consumes events until ctx is canceled or the worker shuts down.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := w.apply(ctx, e); err != nil {
				w.logger.Error(ctx, "feedback apply failed",
					logger.String("eventID", e.EventID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight event.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// apply folds one event into the stores. Declines additionally mark a
// permanent exclusion so the venue never reappears in the feed.
func (w *Worker) apply(ctx context.Context, e Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordFeedbackApplyLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.applier.ApplyFeedback(ctx, e.UserID, e.VenueID, e.Category, e.Accepted); err != nil {
		metrics.RecordFeedbackApplyError()
		return fmt.Errorf("apply feedback %s: %w", e.EventID, err)
	}
	if !e.Accepted && w.excluder != nil {
		w.excluder.MarkDeclined(ctx, e.UserID, e.VenueID)
	}
	metrics.RecordFeedbackApplied(e.Accepted)
	return nil
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
}

// NewPool creates workerCount workers; non-positive counts default to
// a CPU multiple.
func NewPool(workerCount int, q Eventer, applier Applier, excluder Excluder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{workers: make([]*Worker, workerCount)}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, applier, excluder, WithName("feedback-worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateFeedbackWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop shuts all workers down, bounded per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
}
