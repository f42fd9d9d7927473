// Package querystate maps the status filter to the shareable query string.
//
// The query string is the one piece of state shared with the outside world:
// it is what a user pastes to someone else to reproduce a filtered view,
// and it survives relaunch. Only this package writes it.
package querystate

import (
	"net/url"

	"querydeck/internal/api"
)

// Param is the single recognized query parameter.
const Param = "status"

// Decode reads the status filter from a query string. Absent or
// unrecognized values decode to StatusAny; a query string is user-editable
// input, so this never errors.
func Decode(q url.Values) api.Status {
	return api.ParseStatus(q.Get(Param))
}

// Encode writes the filter into q. A concrete status is stored verbatim;
// StatusAny removes the parameter entirely so the unfiltered view has a
// clean query string. Returns q for chaining.
func Encode(filter api.Status, q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if filter.Concrete() {
		q.Set(Param, string(filter))
	} else {
		q.Del(Param)
	}
	return q
}
