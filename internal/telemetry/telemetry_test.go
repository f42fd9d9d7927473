package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingPushAndLast(t *testing.T) {
	r := NewRing(4)
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Last(3))

	for i := 1; i <= 3; i++ {
		r.Push(Event{Kind: KindFetchStart, Gen: uint64(i)})
	}
	assert.Equal(t, 3, r.Len())

	last := r.Last(2)
	require.Len(t, last, 2)
	assert.Equal(t, uint64(2), last[0].Gen)
	assert.Equal(t, uint64(3), last[1].Gen)
}

func TestRingOverwritesOldest(t *testing.T) {
	r := NewRing(3)
	for i := 1; i <= 5; i++ {
		r.Push(Event{Kind: KindFetchAccept, Gen: uint64(i)})
	}

	assert.Equal(t, 3, r.Len())
	last := r.Last(10)
	require.Len(t, last, 3)
	assert.Equal(t, uint64(3), last[0].Gen)
	assert.Equal(t, uint64(5), last[2].Gen)
}

func TestRingStats(t *testing.T) {
	r := NewRing(8)
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchStart})
	r.Push(Event{Kind: KindFetchSupersede})

	stats := r.Stats()
	assert.Equal(t, 2, stats[KindFetchStart])
	assert.Equal(t, 1, stats[KindFetchSupersede])
	assert.Zero(t, stats[KindFetchError])
}

func TestLoggerWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRing(8)
	l := NewLogger(&buf, ring)

	l.Emit(Event{Kind: KindFetchStart, Gen: 1, Page: 2, Filter: "finished"})
	l.Emit(Event{Kind: KindFetchSupersede, Gen: 1})
	l.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, KindFetchStart, first.Kind)
	assert.Equal(t, uint64(1), first.Gen)
	assert.Equal(t, 2, first.Page)
	assert.Equal(t, l.SessionID(), first.SessionID)
	assert.False(t, first.Time.IsZero())

	assert.Equal(t, 2, ring.Len())
}

func TestLoggerEmitAfterClose(t *testing.T) {
	l := NewNullLogger()
	l.Close()

	l.Emit(Event{Kind: KindFetchStart})
	assert.Equal(t, uint64(1), l.Dropped())
}

func TestLoggerPreservesExplicitTime(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, nil)

	when := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	l.Emit(Event{Kind: KindShutdown, Time: when})
	l.Close()

	var got Event
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))
	assert.True(t, when.Equal(got.Time))
}
