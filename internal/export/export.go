// Package export turns a finished search request into a downloadable file.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"querydeck/internal/api"
)

// Project serializes the result payload of a finished search request into
// canonical JSON (object keys sorted recursively, trailing newline) and
// returns the suggested filename alongside the bytes. Identical records
// always produce identical bytes, so re-exporting is idempotent.
//
// Calling Project on a record whose status is not finished is a
// programming error and panics; callers gate the export action on status,
// exactly as the view gates its export key.
func Project(rec api.SearchRequest) (filename string, data []byte) {
	if rec.Status != api.StatusFinished {
		panic(fmt.Sprintf("export: record %s has status %q, want %q", rec.ID, rec.Status, api.StatusFinished))
	}

	payload := rec.Result
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	canonical, err := canonicalize(payload)
	if err != nil {
		// The payload came off the wire as valid JSON; re-encoding it
		// cannot fail unless the record was constructed by hand.
		panic(fmt.Sprintf("export: record %s carries invalid result payload: %v", rec.ID, err))
	}

	return fmt.Sprintf("search-%s.json", rec.ID), canonical
}

// canonicalize re-encodes raw JSON with deterministic key order and
// two-space indentation.
func canonicalize(raw json.RawMessage) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// writeCanonical is a small recursive encoder. encoding/json already sorts
// map keys, but only for map[string]any at the top level of a Marshal
// call; writing it out by hand keeps the indentation rules in one place
// and guarantees sorting at every depth.
func writeCanonical(buf *bytes.Buffer, v any, depth int) error {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			buf.WriteString("{}")
			return nil
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString("{\n")
		for i, k := range keys {
			indent(buf, depth+1)
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteString(": ")
			if err := writeCanonical(buf, val[k], depth+1); err != nil {
				return err
			}
			if i < len(keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte('}')
		return nil

	case []any:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range val {
			indent(buf, depth+1)
			if err := writeCanonical(buf, item, depth+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		indent(buf, depth)
		buf.WriteByte(']')
		return nil

	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func indent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}

// Saver hands an export to whatever triggers the download. The core never
// manages the download mechanism itself.
type Saver interface {
	Save(filename string, data []byte) (path string, err error)
}

// DirSaver writes exports into a fixed directory.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
