package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats events as JSON, one document per event.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes the event as JSON.
func (f *JSONFormatter) Format(w io.Writer, e Event) error {
	encoder := json.NewEncoder(w)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(e)
}
