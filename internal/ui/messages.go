// Package ui provides the Bubble Tea TUI for querydeck.
package ui

import "querydeck/internal/api"

// PageLoaded is sent when a list fetch settles. Gen ties the outcome back
// to the fetch generation that issued it; the controller decides whether
// the outcome is still current.
type PageLoaded struct {
	Gen  uint64
	Page *api.Page
	Err  error
}

// ExportDone is sent when a result export has been written (or failed).
type ExportDone struct {
	RecordID string
	Path     string
	Err      error
}

// PinToggled is sent when a record has been pinned or unpinned.
type PinToggled struct {
	RecordID string
	Pinned   bool
	Err      error
}
