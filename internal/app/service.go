// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/emopulse/emopulse-api/internal/adapters/mq/queue"
	"github.com/emopulse/emopulse-api/internal/adapters/mq/worker"
	"github.com/emopulse/emopulse-api/internal/adapters/repository"
	"github.com/emopulse/emopulse-api/internal/domain/analysis"
	"github.com/emopulse/emopulse-api/internal/domain/dedupe"
	"github.com/emopulse/emopulse-api/internal/domain/model"
	"github.com/emopulse/emopulse-api/pkg/logger"
	"github.com/emopulse/emopulse-api/pkg/metrics"
)

// RotateRoute is the usage route name of POST /.
const RotateRoute = "rotate"

// processStart is when this package was initialised, the default origin of
// uptime.
var processStart = time.Now()

// isoMillis matches JavaScript's Date.prototype.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Service implements the API dependencies: response generation and usage
// accounting.
type Service struct {
	mu sync.RWMutex

	registry *analysis.Registry
	source   analysis.Source

	// Usage pipeline, built by Start.
	store   *repository.MemoryStore
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	version     string
	startedAt   time.Time
	now         func() time.Time

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of usage workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the usage queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered. Zero or less
// remembers every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithVersion sets the version reported by Health.
func WithVersion(v string) Option {
	return func(s *Service) {
		if v != "" {
			s.version = v
		}
	}
}

// WithStartTime sets the instant uptime is measured from. It defaults to
// process start.
func WithStartTime(t time.Time) Option {
	return func(s *Service) {
		if !t.IsZero() {
			s.startedAt = t
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSource sets the random source of the analysis registry.
func WithSource(src analysis.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service and its analysis registry.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount: 2,
		queueSize:   10_000,
		dedupeSize:  50_000,
		version:     "0.1.0",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.startedAt.IsZero() {
		s.startedAt = processStart
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	var regOpts []analysis.Option
	if s.source != nil {
		regOpts = append(regOpts, analysis.WithSource(s.source))
	}
	reg, err := analysis.NewDefaultRegistry(regOpts...)
	if err != nil {
		return nil, fmt.Errorf("build analysis registry: %w", err)
	}
	s.registry = reg
	metrics.UpdateRoutesRegistered(reg.Len())

	return s, nil
}

// Start builds and starts the usage pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting emopulse service...")

	// The pipeline outlives ctx; Stop ends it.
	runCtx := context.WithoutCancel(ctx)
	s.store = repository.NewMemoryStore(runCtx)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, worker.WithDeduper(s.deduper))
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "emopulse service started",
		logger.Int("routes", s.registry.Len()),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the usage queue and releases the pipeline. Usage still queued
// when ctx expires is lost.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping emopulse service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}

	s.started = false
	s.logger.Info(ctx, "emopulse service stopped")
	return errors.Join(errs...)
}

// Analyze generates the response envelope for route.
func (s *Service) Analyze(ctx context.Context, route string, payload map[string]any) (analysis.Envelope, error) {
	env, err := s.registry.Generate(route, payload)
	if err != nil {
		var verr *analysis.ValidationError
		switch {
		case errors.As(err, &verr):
			metrics.RecordValidationFailure(route)
		case errors.Is(err, analysis.ErrUnknownRoute):
		default:
			metrics.RecordInternalError(route)
			s.logger.Error(ctx, "analysis failed", logger.String("route", route), logger.Error(err))
		}
		return analysis.Envelope{}, err
	}

	if rt, ok := s.registry.Lookup(route); ok {
		metrics.RecordAnalysis(route, string(rt.Family()))
	}
	return env, nil
}

// Rotate reverses payload["text"].
func (s *Service) Rotate(ctx context.Context, payload map[string]any) (string, error) {
	if err := analysis.Validate(payload, []string{"text"}); err != nil {
		metrics.RecordValidationFailure(RotateRoute)
		return "", err
	}
	text, ok := payload["text"].(string)
	if !ok {
		metrics.RecordInternalError(RotateRoute)
		err := fmt.Errorf("%w: %q is %T", analysis.ErrTextNotString, "text", payload["text"])
		s.logger.Error(ctx, "rotate failed", logger.Error(err))
		return "", err
	}
	metrics.RecordAnalysis(RotateRoute, string(analysis.FamilyDerived))
	return analysis.Rotate(text), nil
}

// Health reports liveness, process uptime and version.
func (s *Service) Health(_ context.Context) model.Health {
	now := s.now()
	return model.Health{
		Status:    "ok",
		Uptime:    now.Sub(s.startedAt).Seconds(),
		Version:   s.version,
		Timestamp: now.UTC().Format(isoMillis),
	}
}

// Uptime returns the time since process start.
func (s *Service) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

// RecordUsage queues a usage record without blocking. Records are dropped
// when the service is stopped or the queue is full.
func (s *Service) RecordUsage(ctx context.Context, u model.Usage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return
	}
	if u.At.IsZero() {
		u.At = s.now()
	}
	// The request context may already be done once the response is written.
	if err := s.queue.Enqueue(context.WithoutCancel(ctx), u); err != nil {
		s.logger.Debug(ctx, "usage dropped", logger.String("route", u.Route), logger.Error(err))
	}
}

// TopUsage returns the n most requested routes.
func (s *Service) TopUsage(ctx context.Context, n int) ([]repository.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.TopN(ctx, n)
}

// RouteUsage returns the usage entry of one route.
func (s *Service) RouteUsage(ctx context.Context, route string) (repository.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return repository.Entry{}, ErrNotStarted
	}
	return s.store.Rank(ctx, route)
}

// Routes returns the registered analysis routes in order.
func (s *Service) Routes() []analysis.Route {
	return s.registry.Routes()
}

// Registry exposes the analysis registry, e.g. for document generation.
func (s *Service) Registry() *analysis.Registry {
	return s.registry
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"version":     s.version,
		"uptime":      s.Uptime().Seconds(),
		"routes":      s.registry.Len(),
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		tracked := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["routesTracked"] = tracked
		stats["usageRecorded"] = s.pool.Processed()
		stats["requestIdsRemembered"] = s.deduper.Size()

		metrics.UpdateUsageQueueSize(queueLen)
		metrics.UpdateUsageRoutesTracked(tracked)
	}

	return stats
}
