package telemetry

import (
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// chanSize is the capacity of the async write channel. At ~150 bytes per
// event this buffers roughly 600KB before dropping.
const chanSize = 4096

// Logger serializes events as JSONL through a background drain goroutine,
// so emitting from the UI event loop never blocks on disk. Events are
// mirrored into an optional Ring for the debug overlay.
type Logger struct {
	sessionID string
	ch        chan Event
	w         io.Writer
	ring      *Ring
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger creates a Logger writing JSONL to w. ring may be nil.
// Call Close to flush and stop the drain goroutine.
func NewLogger(w io.Writer, ring *Ring) *Logger {
	l := &Logger{
		sessionID: uuid.NewString(),
		ch:        make(chan Event, chanSize),
		w:         w,
		ring:      ring,
		done:      make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewNullLogger creates a Logger that discards output. Still needs Close.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard, nil)
}

// SessionID returns the random ID stamped on every event of this run.
func (l *Logger) SessionID() string { return l.sessionID }

// Dropped returns the number of events lost to a full channel or encode
// or write failures.
func (l *Logger) Dropped() uint64 { return l.dropped.Load() }

// Emit records an event. Sets Time (if zero) and SessionID. Non-blocking:
// a full channel drops the event and counts it.
//
// Safe to call concurrently with Close; a racing send on the closed
// channel is recovered and counted as dropped.
func (l *Logger) Emit(e Event) {
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.sessionID

	select {
	case l.ch <- e:
	default:
		l.dropped.Add(1)
	}
}

// Close stops the drain goroutine after flushing buffered events.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done
	})
}

func (l *Logger) drain() {
	defer close(l.done)
	enc := json.NewEncoder(l.w)
	for e := range l.ch {
		if err := enc.Encode(e); err != nil {
			l.dropped.Add(1)
		}
		if l.ring != nil {
			l.ring.Push(e)
		}
	}
}
