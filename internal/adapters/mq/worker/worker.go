// Package worker drains the usage queue into the usage store.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/emopulse/emopulse-api/internal/domain/model"
	"github.com/emopulse/emopulse-api/pkg/logger"
	"github.com/emopulse/emopulse-api/pkg/metrics"
)

const defaultWorkerCount = 2

// Item abstracts what workers read off the queue.
type Item = model.Usage

// Recorder stores a usage record.
type Recorder interface {
	Record(ctx context.Context, u model.Usage) error
}

// Deduper tracks request ids already recorded.
type Deduper interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
}

// Queue defines how workers receive items.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Item
}

// Worker processes usage items.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, the queue is drained
	// and closed, or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	recorder Recorder
	deduper  Deduper
	name     string

	shutdownOnce sync.Once
	shutdown     chan struct{}
	done         chan struct{}

	processed atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		recorder: recorder,
		name:     "worker",
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

// Run implements Worker.Run.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	// Cancelling on exit releases the queue's dequeue goroutine.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case it, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, it); err != nil {
				w.logger.Error(ctx, "error recording usage", logger.Error(err))
			}
		}
	}
}

// Shutdown implements Worker.Shutdown.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Processed returns how many items this worker recorded.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

func (w *InMemoryWorker) process(ctx context.Context, it Item) error {
	ctx = logger.ContextWithRequestID(ctx, it.RequestID)

	dedupe := w.deduper != nil && it.RequestID != ""
	if dedupe && w.deduper.SeenAndRecord(ctx, it.RequestID) {
		metrics.RecordUsageDuplicate()
		w.logger.Debug(ctx, "duplicate usage skipped", logger.String("route", it.Route))
		return nil
	}

	if err := w.recorder.Record(ctx, it); err != nil {
		if dedupe {
			w.deduper.Unrecord(ctx, it.RequestID)
		}
		metrics.RecordErrorByType("usage_record_error", "low")
		return fmt.Errorf("record usage for route %q: %w", it.Route, err)
	}

	w.processed.Add(1)
	metrics.RecordUsageRecorded()
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	started atomic.Bool

	logger logger.Logger
}

// NewPool creates a new worker pool. workerCount < 1 selects the default.
func NewPool(workerCount int, q Queue, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, recorder, workerOpts...)
	}

	metrics.UpdateUsageWorkers(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of items recorded by all workers.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it. When ctx
// expires first the workers are stopped and the remaining items are lost.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	if !p.started.Load() {
		return nil
	}

	drained := true
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			drained = false
		}
		if !drained {
			break
		}
	}
	if drained {
		return nil
	}

	p.logger.Warn(ctx, "usage queue not drained before shutdown deadline")
	for _, w := range p.workers {
		w.shutdownOnce.Do(func() { close(w.shutdown) })
	}
	for _, w := range p.workers {
		<-w.done
	}
	return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
}
