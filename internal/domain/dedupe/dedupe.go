// Package dedupe tracks request ids so a usage record is counted once.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen request IDs to ensure at-most-once accounting.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID so it can be recorded again. Used when a
	// record was marked as seen but could not be stored.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps ids in a map. In bounded mode (maxSize > 0) a ring of
// insertion order evicts the oldest id once the map is full; unbounded mode
// never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> slot in ring, -1 in unbounded mode
	ring    []string
	next    int // slot the next id is written to
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize <= 0 {
		d.seen[id] = -1
		return false
	}

	if len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	// Holes left by Unrecord can put a live id under the cursor.
	for d.live(d.next) {
		d.next = (d.next + 1) % d.maxSize
	}
	slot := d.next
	d.ring[slot] = id
	d.seen[id] = slot
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, exists := d.seen[id]
	if !exists {
		return
	}
	delete(d.seen, id)
	if slot >= 0 {
		d.ring[slot] = ""
	}
}

// evictOldest walks the ring from the write cursor and drops the first live
// id it meets. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	for i := 0; i < d.maxSize; i++ {
		slot := (d.next + i) % d.maxSize
		if d.live(slot) {
			delete(d.seen, d.ring[slot])
			d.ring[slot] = ""
			d.next = slot
			return
		}
	}
}

func (d *inMemoryDeduper) live(slot int) bool {
	owner, ok := d.seen[d.ring[slot]]
	return ok && owner == slot
}

// Size returns the current number of remembered ids.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
