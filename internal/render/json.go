package render

import (
	"encoding/json"
	"io"
)

// JSONWriter prints any value as JSON.
type JSONWriter struct {
	output io.Writer
	indent bool
}

// NewJSONWriter creates a JSONWriter; pretty enables two-space indentation.
func NewJSONWriter(output io.Writer, pretty bool) *JSONWriter {
	return &JSONWriter{output: output, indent: pretty}
}

func (w *JSONWriter) Write(v any) error {
	enc := json.NewEncoder(w.output)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
