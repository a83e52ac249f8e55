package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/instanttext/instanttext/internal/model"
)

// JSONWriter outputs results in JSON format for piping into other tools.
//
// Design decision: encoding/json is enough here. The output is a flat
// list of small records, so a faster or more featureful JSON library
// would buy nothing over the standard encoder.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output; compact when false.
	indent bool

	// indentPrefix prefixes every line of indented output.
	indentPrefix string

	// indentString is the per-level indentation, typically "  ".
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with an explicit prefix and
// per-level indent string.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is shorthand for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter writing to output.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the results as a JSON array.
func (w *JSONWriter) Write(results []*model.Result) (int, error) {
	if results == nil {
		results = []*model.Result{}
	}
	return w.writeJSON(results)
}

// WriteOne outputs a single result as a JSON object.
func (w *JSONWriter) WriteOne(result *model.Result) (int, error) {
	return w.writeJSON(result)
}

// writeJSON marshals v and writes it with a trailing newline so the
// output is terminal- and pipe-friendly.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	return w.output.Write(append(data, '\n'))
}

// Export wraps a full history export with metadata about the export
// itself. The envelope keeps export-only fields (version, timestamp)
// out of the Result record, which stays a pure capture artifact.
type Export struct {
	// Version is the application version that generated this export.
	Version string `json:"version"`

	// ExportedAt is when the export was produced.
	ExportedAt time.Time `json:"exported_at"`

	// Count is the number of exported results.
	Count int `json:"count"`

	// Results are the exported results, newest first.
	Results []*model.Result `json:"results"`
}

// FullJSONWriter outputs a complete history export with metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the application version string.
	version string
}

// NewFullJSONWriter creates a writer for complete exports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the results wrapped with export metadata.
func (w *FullJSONWriter) Write(results []*model.Result) (int, error) {
	if results == nil {
		results = []*model.Result{}
	}

	export := &Export{
		Version:    w.version,
		ExportedAt: time.Now().UTC(),
		Count:      len(results),
		Results:    results,
	}
	return w.writeJSON(export)
}
