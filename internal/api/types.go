package api

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a search request on the server.
// The empty value StatusAny means "no constraint" and is only meaningful
// as a list filter; records themselves always carry a concrete status.
type Status string

const (
	StatusAny      Status = ""
	StatusNew      Status = "new"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusCanceled Status = "canceled"
)

// ParseStatus maps a wire token to a Status. Unrecognized tokens decode to
// StatusAny rather than failing: the token may come from a hand-edited
// query string, and the server treats an unknown filter as "all".
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusNew, StatusRunning, StatusFinished, StatusCanceled:
		return Status(s)
	default:
		return StatusAny
	}
}

// Concrete reports whether s names an actual record status (not StatusAny).
func (s Status) Concrete() bool {
	return s == StatusNew || s == StatusRunning || s == StatusFinished || s == StatusCanceled
}

// SearchRequest is a single search-request record as served by the list
// endpoint. CreatedAt is optional (older records predate the column) and
// Result is populated only for finished requests.
type SearchRequest struct {
	ID         string          `json:"id"`
	Query      string          `json:"query"`
	Status     Status          `json:"status"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	DurationMS int64           `json:"duration_ms,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

// Elapsed returns the recorded execution time, or zero if none was reported.
func (r SearchRequest) Elapsed() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// Page is one page of search requests plus pagination metadata.
// Items preserve server order.
type Page struct {
	Items       []SearchRequest `json:"items"`
	TotalCount  int             `json:"total_count"`
	HasNext     bool            `json:"has_next"`
	HasPrevious bool            `json:"has_previous"`
}
