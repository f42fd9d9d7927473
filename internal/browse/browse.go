// Package browse holds the view state for the search-request listing and
// decides which fetch responses are allowed to update it.
//
// The controller is deliberately free of any UI or scheduling primitive:
// transitions are plain method calls, fetches are described by a Fetch
// value the driver executes however it likes, and completions come back
// through Resolve. Out-of-order completions are handled with a monotonic
// generation counter: only the response for the newest issued fetch is
// ever applied, so a slow page-1 response can never clobber the page-2
// view the user has already navigated to.
package browse

import (
	"errors"

	"querydeck/internal/api"
	"querydeck/internal/querystate"
)

// ErrInvalidPage is returned by SetPage for pages below 1.
var ErrInvalidPage = errors.New("browse: page must be >= 1")

// State is the renderable view state.
// Result and Err are nil until populated. Result is only ever replaced
// wholesale by an accepted response; a failed fetch leaves the previous
// Result visible so the view degrades to stale rather than blank.
type State struct {
	Page    int
	Filter  api.Status
	Loading bool
	Result  *api.Page
	Err     error
}

// Fetch describes one list request the driver must execute. The generation
// ties the eventual response back to the transition that issued it.
type Fetch struct {
	Gen    uint64
	Page   int
	Filter api.Status
}

// Notifier receives exactly one message per accepted fetch failure.
// Superseded failures are never reported.
type Notifier interface {
	FetchFailed(err error)
}

// Navigator opens the detail view for a record. Fire and forget; the
// controller consumes nothing from it.
type Navigator interface {
	GoToDetail(id string)
}

// Controller is the browsing state machine.
//
// IMPORTANT: Controller is NOT goroutine-safe. All methods must be called
// from a single goroutine (the UI event loop). Fetches themselves may run
// anywhere; only Resolve must come back on the driving goroutine.
type Controller struct {
	state     State
	gen       uint64
	queries   querystate.Store
	notifier  Notifier
	navigator Navigator
	observers []func(State)
}

// NewController creates a Controller with page 1 and the filter decoded
// from the stored query string. A store read failure degrades to the
// unfiltered view; the query surface is user-editable input, not a
// dependency the controller can refuse to start without.
func NewController(queries querystate.Store, notifier Notifier, navigator Navigator) *Controller {
	filter := api.StatusAny
	if q, err := queries.Get(); err == nil {
		filter = querystate.Decode(q)
	}
	return &Controller{
		state: State{
			Page:   1,
			Filter: filter,
		},
		queries:   queries,
		notifier:  notifier,
		navigator: navigator,
	}
}

// State returns a snapshot of the current view state.
func (c *Controller) State() State { return c.state }

// Generation returns the current fetch generation.
func (c *Controller) Generation() uint64 { return c.gen }

// Subscribe registers an observer called synchronously after every
// accepted transition. Superseded resolutions notify nobody.
func (c *Controller) Subscribe(fn func(State)) {
	c.observers = append(c.observers, fn)
}

// SetFilter applies a new status filter and returns the fetch to issue.
// The page always resets to 1: the new filter may have fewer pages than
// the current page number, and requesting an out-of-range page would fail
// for no user-visible reason.
func (c *Controller) SetFilter(filter api.Status) Fetch {
	c.state.Filter = filter
	c.state.Page = 1
	c.writeQueryString()
	return c.beginFetch()
}

// SetPage navigates to page p (1-based) and returns the fetch to issue.
// Pages below 1 are rejected without any state change.
func (c *Controller) SetPage(p int) (Fetch, error) {
	if p < 1 {
		return Fetch{}, ErrInvalidPage
	}
	c.state.Page = p
	return c.beginFetch(), nil
}

// Refresh re-issues the fetch for the current page and filter. This is the
// only retry mechanism: failures are never retried automatically.
func (c *Controller) Refresh() Fetch {
	return c.beginFetch()
}

// Resolve applies the outcome of the fetch issued with generation gen.
// Outcomes for anything but the newest generation are discarded entirely:
// no state change, no observer notification, no failure report. On an
// accepted failure the previous result is retained and the notifier is
// told exactly once. Reports whether the outcome was accepted.
func (c *Controller) Resolve(gen uint64, page *api.Page, err error) bool {
	if gen != c.gen {
		return false
	}
	c.state.Loading = false
	if err != nil {
		c.state.Err = err
		if c.notifier != nil {
			c.notifier.FetchFailed(err)
		}
	} else {
		c.state.Result = page
		c.state.Err = nil
	}
	c.notify()
	return true
}

// OpenDetail asks the navigation collaborator to show a record.
func (c *Controller) OpenDetail(id string) {
	if c.navigator != nil {
		c.navigator.GoToDetail(id)
	}
}

// beginFetch bumps the generation, marks the view loading, and notifies
// observers. The previous result stays in place while the new page loads;
// clearing it would blank the view on every navigation.
func (c *Controller) beginFetch() Fetch {
	c.gen++
	c.state.Loading = true
	c.notify()
	return Fetch{Gen: c.gen, Page: c.state.Page, Filter: c.state.Filter}
}

// writeQueryString pushes the current filter into the shared query string,
// preserving parameters owned by other subsystems. The query surface is
// write-only after construction; it is never read back into view state.
func (c *Controller) writeQueryString() {
	q, err := c.queries.Get()
	if err != nil {
		q = nil
	}
	_ = c.queries.Set(querystate.Encode(c.state.Filter, q))
}

func (c *Controller) notify() {
	for _, fn := range c.observers {
		fn(c.state)
	}
}
