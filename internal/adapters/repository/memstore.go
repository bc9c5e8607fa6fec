package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/emopulse/emopulse-api/internal/domain/model"
	"github.com/emopulse/emopulse-api/pkg/metrics"
)

// counters is the mutable per-route state.
type counters struct {
	requests     int64
	failures     int64
	totalLatency time.Duration
	lastStatus   int
	lastSeen     time.Time
}

func (c *counters) entry(route string) Entry {
	var avg float64
	if c.requests > 0 {
		avg = float64(c.totalLatency.Microseconds()) / 1000 / float64(c.requests)
	}
	return Entry{
		Route:        route,
		Requests:     c.requests,
		Failures:     c.failures,
		AvgLatencyMs: avg,
		LastStatus:   c.lastStatus,
		LastSeen:     c.lastSeen,
	}
}

// MemoryStore is an in-memory Store keyed by route name.
//
// Ordering: requests DESC, then route ASC (deterministic).
type MemoryStore struct {
	mu      sync.RWMutex
	byRoute map[string]*counters
	now     func() time.Time

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewMemoryStore constructs a usage store with configuration options and
// starts its background metrics updater, stopped by ctx or Close.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byRoute:               make(map[string]*counters),
		now:                   time.Now,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Record implements Store.Record.
func (s *MemoryStore) Record(_ context.Context, u model.Usage) error {
	start := time.Now()
	defer func() {
		metrics.RecordUsageRecordLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if u.Route == "" {
		return ErrEmptyRoute
	}
	at := u.At
	if at.IsZero() {
		at = s.now()
	}

	s.mu.Lock()
	c, ok := s.byRoute[u.Route]
	if !ok {
		c = &counters{}
		s.byRoute[u.Route] = c
	}
	c.requests++
	if u.Failed() {
		c.failures++
	}
	c.totalLatency += u.Latency
	c.lastStatus = u.Status
	if at.After(c.lastSeen) {
		c.lastSeen = at
	}
	tracked := len(s.byRoute)
	s.mu.Unlock()

	if !ok {
		metrics.UpdateUsageRoutesTracked(tracked)
	}
	return nil
}

// Rank implements Store.Rank.
func (s *MemoryStore) Rank(_ context.Context, route string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byRoute[route]; !ok {
		return Entry{}, ErrNotFound
	}

	all := s.sortedLocked()
	e, found := lo.Find(all, func(e Entry) bool { return e.Route == route })
	if !found {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// TopN implements Store.TopN.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sortedLocked()
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byRoute)
}

// sortedLocked returns every entry in rank order. Caller holds s.mu.
func (s *MemoryStore) sortedLocked() []Entry {
	all := lo.MapToSlice(s.byRoute, func(route string, c *counters) Entry {
		return c.entry(route)
	})
	slices.SortFunc(all, func(a, b Entry) int {
		if a.Requests != b.Requests {
			return cmp.Compare(b.Requests, a.Requests)
		}
		return cmp.Compare(a.Route, b.Route)
	})
	assignRanksWithTies(all)
	return all
}

// assignRanksWithTies gives equal request counts the same rank; ranks are
// consecutive (1, 1, 2).
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Requests != entries[i-1].Requests {
			rank++
		}
		entries[i].Rank = rank
	}
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateUsageRoutesTracked(s.Count(ctx))
			}
		}
	}()
}
