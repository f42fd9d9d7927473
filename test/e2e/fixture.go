package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"
)

// fixtureRecord mirrors the service's wire format for a search request.
type fixtureRecord struct {
	ID         string          `json:"id"`
	Query      string          `json:"query"`
	Status     string          `json:"status"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	DurationMS int64           `json:"duration_ms,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
}

type fixturePage struct {
	Items       []fixtureRecord `json:"items"`
	TotalCount  int             `json:"total_count"`
	HasNext     bool            `json:"has_next"`
	HasPrevious bool            `json:"has_previous"`
}

// startFixtureServer serves a deterministic two-page collection. Page 1
// holds a finished and a running request; page 2 holds a canceled one.
// A status filter narrows to the matching records on a single page.
func startFixtureServer() *httptest.Server {
	created := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	all := []fixtureRecord{
		{ID: "sr-100", Query: "fixture finished query", Status: "finished",
			CreatedAt: &created, DurationMS: 1500, Result: json.RawMessage(`{"hits": 3}`)},
		{ID: "sr-101", Query: "fixture running query", Status: "running", CreatedAt: &created},
		{ID: "sr-102", Query: "fixture canceled query", Status: "canceled", CreatedAt: &created},
	}

	const pageSize = 2
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/searches" {
			http.NotFound(w, r)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		status := r.URL.Query().Get("status")

		matched := make([]fixtureRecord, 0, len(all))
		for _, rec := range all {
			if status == "" || rec.Status == status {
				matched = append(matched, rec)
			}
		}

		start := (page - 1) * pageSize
		end := start + pageSize
		if start > len(matched) {
			start = len(matched)
		}
		if end > len(matched) {
			end = len(matched)
		}

		resp := fixturePage{
			Items:       matched[start:end],
			TotalCount:  len(matched),
			HasNext:     end < len(matched),
			HasPrevious: start > 0,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}
