package browse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querydeck/internal/api"
	"querydeck/internal/querystate"
)

type recordingNotifier struct {
	failures []error
}

func (n *recordingNotifier) FetchFailed(err error) { n.failures = append(n.failures, err) }

type recordingNavigator struct {
	opened []string
}

func (n *recordingNavigator) GoToDetail(id string) { n.opened = append(n.opened, id) }

func newTestController(rawQuery string) (*Controller, *querystate.MemStore, *recordingNotifier) {
	qs := querystate.NewMemStore(rawQuery)
	notifier := &recordingNotifier{}
	return NewController(qs, notifier, nil), qs, notifier
}

func pageOf(total int, ids ...string) *api.Page {
	items := make([]api.SearchRequest, len(ids))
	for i, id := range ids {
		items[i] = api.SearchRequest{ID: id, Query: "q-" + id, Status: api.StatusRunning}
	}
	return &api.Page{Items: items, TotalCount: total, HasNext: total > len(ids)}
}

func TestInitialState(t *testing.T) {
	c, _, _ := newTestController("")
	st := c.State()

	assert.Equal(t, 1, st.Page)
	assert.Equal(t, api.StatusAny, st.Filter)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Result)
	assert.Nil(t, st.Err)
}

func TestInitialFilterFromQueryString(t *testing.T) {
	c, _, _ := newTestController("status=finished")
	assert.Equal(t, api.StatusFinished, c.State().Filter)

	c, _, _ = newTestController("status=nonsense")
	assert.Equal(t, api.StatusAny, c.State().Filter)
}

func TestSetFilterResetsPage(t *testing.T) {
	c, _, _ := newTestController("")
	_, err := c.SetPage(7)
	require.NoError(t, err)

	f := c.SetFilter(api.StatusFinished)
	st := c.State()

	assert.Equal(t, 1, st.Page)
	assert.Equal(t, api.StatusFinished, st.Filter)
	assert.True(t, st.Loading)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, api.StatusFinished, f.Filter)
}

func TestSetFilterWritesQueryString(t *testing.T) {
	c, qs, _ := newTestController("tab=overview")

	c.SetFilter(api.StatusFinished)
	assert.Equal(t, "status=finished&tab=overview", qs.Raw())

	c.SetFilter(api.StatusAny)
	assert.Equal(t, "tab=overview", qs.Raw())
}

func TestSetPageRejectsBelowOne(t *testing.T) {
	c, _, _ := newTestController("")
	f := c.SetFilter(api.StatusRunning)
	c.Resolve(f.Gen, pageOf(3, "a"), nil)
	before := c.State()
	gen := c.Generation()

	for _, p := range []int{0, -1, -100} {
		_, err := c.SetPage(p)
		assert.ErrorIs(t, err, ErrInvalidPage)
	}

	assert.Equal(t, before, c.State(), "rejected SetPage must not mutate state")
	assert.Equal(t, gen, c.Generation())
}

func TestSetPageKeepsFilter(t *testing.T) {
	c, qs, _ := newTestController("")
	c.SetFilter(api.StatusFinished)

	f, err := c.SetPage(2)
	require.NoError(t, err)

	assert.Equal(t, 2, c.State().Page)
	assert.Equal(t, api.StatusFinished, c.State().Filter)
	assert.Equal(t, api.StatusFinished, f.Filter)
	assert.Equal(t, "status=finished", qs.Raw(), "page changes never touch the query string")
}

func TestResolveSuccess(t *testing.T) {
	c, _, _ := newTestController("")
	f := c.SetFilter(api.StatusAny)

	accepted := c.Resolve(f.Gen, pageOf(2, "a", "b"), nil)
	st := c.State()

	assert.True(t, accepted)
	assert.False(t, st.Loading)
	require.NotNil(t, st.Result)
	assert.Equal(t, 2, st.Result.TotalCount)
	assert.Nil(t, st.Err)
}

func TestStaleResponseDiscarded(t *testing.T) {
	c, _, notifier := newTestController("")

	f1, err := c.SetPage(1)
	require.NoError(t, err)
	f2, err := c.SetPage(2)
	require.NoError(t, err)
	require.Greater(t, f2.Gen, f1.Gen)

	// Out-of-order arrival: the newer response lands first.
	assert.True(t, c.Resolve(f2.Gen, pageOf(10, "page2-a"), nil))
	assert.False(t, c.Resolve(f1.Gen, pageOf(10, "page1-a"), nil))

	st := c.State()
	require.NotNil(t, st.Result)
	assert.Equal(t, "page2-a", st.Result.Items[0].ID)
	assert.False(t, st.Loading)
	assert.Empty(t, notifier.failures)
}

func TestStaleFailureDiscardedSilently(t *testing.T) {
	c, _, notifier := newTestController("")

	f1, _ := c.SetPage(1)
	f2, _ := c.SetPage(2)

	assert.True(t, c.Resolve(f2.Gen, pageOf(1, "keep"), nil))
	assert.False(t, c.Resolve(f1.Gen, nil, errors.New("slow failure")))

	st := c.State()
	assert.Nil(t, st.Err, "superseded failure must not surface")
	assert.Empty(t, notifier.failures, "superseded failure must not notify")
	assert.Equal(t, "keep", st.Result.Items[0].ID)
}

func TestAcceptedFailureKeepsResultAndNotifiesOnce(t *testing.T) {
	c, _, notifier := newTestController("")

	f1, _ := c.SetPage(1)
	c.Resolve(f1.Gen, pageOf(5, "stale-but-visible"), nil)

	f2, _ := c.SetPage(2)
	failure := errors.New("connection reset")
	c.Resolve(f2.Gen, nil, failure)

	st := c.State()
	assert.False(t, st.Loading)
	assert.ErrorIs(t, st.Err, failure)
	require.NotNil(t, st.Result, "a failed fetch never clears the previous result")
	assert.Equal(t, "stale-but-visible", st.Result.Items[0].ID)
	require.Len(t, notifier.failures, 1)
	assert.ErrorIs(t, notifier.failures[0], failure)
}

func TestRefreshBumpsGeneration(t *testing.T) {
	c, _, _ := newTestController("")

	f1, _ := c.SetPage(1)
	f2 := c.Refresh()

	assert.Greater(t, f2.Gen, f1.Gen)
	assert.Equal(t, f1.Page, f2.Page)
	assert.Equal(t, f1.Filter, f2.Filter)

	// The pre-refresh response is stale now.
	assert.False(t, c.Resolve(f1.Gen, pageOf(1, "old"), nil))
	assert.True(t, c.Resolve(f2.Gen, pageOf(1, "new"), nil))
	assert.Equal(t, "new", c.State().Result.Items[0].ID)
}

func TestSuccessClearsPreviousError(t *testing.T) {
	c, _, _ := newTestController("")

	f1, _ := c.SetPage(1)
	c.Resolve(f1.Gen, nil, errors.New("first try failed"))
	require.Error(t, c.State().Err)

	f2 := c.Refresh()
	c.Resolve(f2.Gen, pageOf(1, "a"), nil)
	assert.Nil(t, c.State().Err)
}

func TestObserversNotifiedPerTransition(t *testing.T) {
	c, _, _ := newTestController("")

	var seen []State
	c.Subscribe(func(s State) { seen = append(seen, s) })

	f := c.SetFilter(api.StatusNew) // notify #1 (loading)
	c.Resolve(f.Gen, pageOf(0), nil) // notify #2 (settled)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)

	// Superseded resolution notifies nobody.
	c.Resolve(f.Gen-1, pageOf(1, "x"), nil)
	assert.Len(t, seen, 2)
}

func TestEmptyPage(t *testing.T) {
	c, _, _ := newTestController("")
	f := c.SetFilter(api.StatusCanceled)
	c.Resolve(f.Gen, &api.Page{Items: nil, TotalCount: 0}, nil)

	st := c.State()
	require.NotNil(t, st.Result)
	assert.Zero(t, st.Result.TotalCount)
	assert.False(t, st.Result.HasNext)
	assert.False(t, st.Result.HasPrevious)
}

func TestOpenDetail(t *testing.T) {
	qs := querystate.NewMemStore("")
	nav := &recordingNavigator{}
	c := NewController(qs, nil, nav)

	c.OpenDetail("sr-42")
	assert.Equal(t, []string{"sr-42"}, nav.opened)
}

// Mirrors the full interaction scenario: start unfiltered, filter to
// finished, go to page 2, and make sure a slow page-1 response cannot
// overwrite the page-2 result.
func TestScenarioFilterPageAndStaleResponse(t *testing.T) {
	c, qs, _ := newTestController("")

	assert.Equal(t, api.StatusAny, c.State().Filter)
	assert.Equal(t, 1, c.State().Page)

	c.SetFilter(api.StatusFinished)
	assert.Equal(t, api.StatusFinished, c.State().Filter)
	assert.Equal(t, 1, c.State().Page)
	assert.Contains(t, qs.Raw(), "status=finished")

	f1 := c.Refresh() // the page-1 fetch that will resolve late
	f2, err := c.SetPage(2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.State().Page)
	assert.Equal(t, api.StatusFinished, c.State().Filter)
	assert.Equal(t, "status=finished", qs.Raw())

	c.Resolve(f2.Gen, pageOf(40, "page2"), nil)
	c.Resolve(f1.Gen, pageOf(40, "page1"), nil)

	assert.Equal(t, "page2", c.State().Result.Items[0].ID)
}
