package pins

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querydeck/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenCreatesSchema(t *testing.T) {
	st := openTestStore(t)

	var name string
	err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='pins'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "pins", name)
}

func TestPinAndList(t *testing.T) {
	st := openTestStore(t)

	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rec := api.SearchRequest{
		ID:         "sr-1",
		Query:      "golang tui",
		Status:     api.StatusFinished,
		CreatedAt:  &created,
		DurationMS: 900,
		Result:     json.RawMessage(`{"hits": 7}`),
	}

	isNew, err := st.Pin(rec)
	require.NoError(t, err)
	assert.True(t, isNew)

	pins, err := st.List()
	require.NoError(t, err)
	require.Len(t, pins, 1)

	got := pins[0].Record
	assert.Equal(t, "sr-1", got.ID)
	assert.Equal(t, "golang tui", got.Query)
	assert.Equal(t, api.StatusFinished, got.Status)
	require.NotNil(t, got.CreatedAt)
	assert.True(t, created.Equal(*got.CreatedAt))
	assert.Equal(t, int64(900), got.DurationMS)
	assert.JSONEq(t, `{"hits": 7}`, string(got.Result))
	assert.False(t, pins[0].PinnedAt.IsZero())
}

func TestPinDuplicateIsNoop(t *testing.T) {
	st := openTestStore(t)
	rec := api.SearchRequest{ID: "sr-1", Query: "q", Status: api.StatusRunning}

	isNew, err := st.Pin(rec)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = st.Pin(rec)
	require.NoError(t, err)
	assert.False(t, isNew)

	pins, err := st.List()
	require.NoError(t, err)
	assert.Len(t, pins, 1)
}

func TestPinOptionalFieldsAbsent(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Pin(api.SearchRequest{ID: "sr-2", Query: "q", Status: api.StatusNew})
	require.NoError(t, err)

	pins, err := st.List()
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Nil(t, pins[0].Record.CreatedAt)
	assert.Nil(t, pins[0].Record.Result)
}

func TestUnpinAndHas(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Pin(api.SearchRequest{ID: "sr-3", Query: "q", Status: api.StatusCanceled})
	require.NoError(t, err)

	pinned, err := st.Has("sr-3")
	require.NoError(t, err)
	assert.True(t, pinned)

	require.NoError(t, st.Unpin("sr-3"))

	pinned, err = st.Has("sr-3")
	require.NoError(t, err)
	assert.False(t, pinned)

	// Unpinning again is fine.
	require.NoError(t, st.Unpin("sr-3"))
}

func TestListOrder(t *testing.T) {
	st := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := st.Pin(api.SearchRequest{ID: id, Query: "q-" + id, Status: api.StatusNew})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond) // distinct pinned_at timestamps
	}

	pins, err := st.List()
	require.NoError(t, err)
	require.Len(t, pins, 3)
	assert.Equal(t, "c", pins[0].Record.ID)
	assert.Equal(t, "a", pins[2].Record.ID)
}
