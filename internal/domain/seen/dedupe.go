package seen

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default bound on remembered feedback event ids.
const defaultDedupeSize = 50000

// Deduper records feedback event ids for at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if
	// not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing a retry after the event was
	// acked but failed to enqueue.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// InMemoryDeduper implements Deduper with a bounded FIFO of ids.
type InMemoryDeduper struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
	next  int
	size  atomic.Int64
}

// NewInMemoryDeduper creates a deduper remembering at most maxSize
// ids; non-positive sizes fall back to the default bound.
func NewInMemoryDeduper(maxSize int) *InMemoryDeduper {
	if maxSize <= 0 {
		maxSize = defaultDedupeSize
	}
	return &InMemoryDeduper{
		seen:  make(map[string]struct{}, maxSize),
		order: make([]string, maxSize),
	}
}

// SeenAndRecord atomically checks and records id.
func (d *InMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if old := d.order[d.next]; old != "" {
		delete(d.seen, old)
		d.size.Add(-1)
	}
	d.order[d.next] = id
	d.seen[id] = struct{}{}
	d.next = (d.next + 1) % len(d.order)
	d.size.Add(1)
	return false
}

// Unrecord forgets id so the event can be submitted again.
func (d *InMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)
	for i, v := range d.order {
		if v == id {
			d.order[i] = ""
			break
		}
	}
}

// Size returns the number of remembered ids.
func (d *InMemoryDeduper) Size() int64 {
	return d.size.Load()
}
