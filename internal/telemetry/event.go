// Package telemetry records what the fetch coordinator actually did.
//
// Supersession makes the controller deliberately silent: discarded
// responses produce no state change and no notification, which also makes
// them invisible when something goes wrong. Events written here (JSONL on
// disk, ring buffer for the in-app debug overlay) are the only place that
// history is visible.
package telemetry

import "time"

// Kind identifies the category of an event. Dot-delimited:
// "<subsystem>.<action>".
type Kind string

const (
	KindFetchStart     Kind = "fetch.start"
	KindFetchAccept    Kind = "fetch.accept"
	KindFetchSupersede Kind = "fetch.supersede"
	KindFetchError     Kind = "fetch.error"

	KindExportWrite Kind = "export.write"
	KindPinAdd      Kind = "pin.add"
	KindPinRemove   Kind = "pin.remove"

	KindStartup  Kind = "sys.startup"
	KindShutdown Kind = "sys.shutdown"
)

// Event is a single observability record, serialized as one JSONL line.
// Every field except Kind and Time is optional.
type Event struct {
	Time      time.Time     `json:"t"`
	Kind      Kind          `json:"kind"`
	SessionID string        `json:"session_id,omitempty"`
	Gen       uint64        `json:"gen,omitempty"`    // fetch generation
	Page      int           `json:"page,omitempty"`
	Filter    string        `json:"filter,omitempty"`
	Count     int           `json:"count,omitempty"`
	RecordID  string        `json:"record_id,omitempty"`
	Dur       time.Duration `json:"dur_ns,omitempty"`
	Err       string        `json:"err,omitempty"`
	Msg       string        `json:"msg,omitempty"`
}
