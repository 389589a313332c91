// Package output writes machine-readable event streams.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Event is one record of machine-readable output. Every event carries a
// "type" key.
type Event = map[string]any

const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Supported reports whether Write knows format.
func Supported(format string) bool {
	return format == FormatJSON || format == FormatNDJSON
}

// Write emits events as one JSON object per line ("ndjson") or as a single
// indented {"events": [...]} document ("json"). Paths are written without
// HTML escaping in both formats.
func Write(w io.Writer, format string, events []Event) error {
	for i, e := range events {
		if _, ok := e["type"].(string); !ok {
			return fmt.Errorf("event %d has no type", i)
		}
	}
	switch format {
	case FormatNDJSON:
		enc := newEncoder(w)
		for i, e := range events {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("encode event %d: %w", i, err)
			}
		}
		return nil
	case FormatJSON:
		if events == nil {
			events = []Event{}
		}
		enc := newEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Events []Event `json:"events"`
		}{events})
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}
