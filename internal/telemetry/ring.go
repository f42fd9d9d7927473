package telemetry

import "sync"

// DefaultRingSize is the default ring capacity.
const DefaultRingSize = 512

// Ring is a fixed-size circular buffer of Events backing the debug
// overlay. Goroutine-safe.
type Ring struct {
	mu    sync.Mutex
	buf   []Event
	head  int // next write position
	count int
}

// NewRing creates a ring with the given capacity.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{buf: make([]Event, size)}
}

// Push adds an event, overwriting the oldest when full.
func (r *Ring) Push(e Event) {
	r.mu.Lock()
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	r.mu.Unlock()
}

// Last returns the n most recent events in chronological order.
func (r *Ring) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	out := make([]Event, n)
	start := (r.head - n + len(r.buf)) % len(r.buf)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Len returns the number of buffered events.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Stats returns aggregated counts by Kind over all buffered events.
func (r *Ring) Stats() map[Kind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[Kind]int)
	start := 0
	if r.count == len(r.buf) {
		start = r.head
	}
	for i := 0; i < r.count; i++ {
		counts[r.buf[(start+i)%len(r.buf)].Kind]++
	}
	return counts
}
