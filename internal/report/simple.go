package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/instanttext/instanttext/internal/model"
)

// timestampFormat is the display format for result timestamps.
const timestampFormat = "2006-01-02 15:04:05 MST"

// SimpleWriter outputs human-readable text.
// This format is designed for terminal display with clear per-result
// separation.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output: result IDs,
	// image hashes, and screenshot paths.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the results in human-readable format, newest first.
func (w *SimpleWriter) Write(results []*model.Result) (int, error) {
	var sb strings.Builder

	if len(results) == 0 {
		sb.WriteString("No results in history.\n")
		return io.WriteString(w.output, sb.String())
	}

	fmt.Fprintf(&sb, "%d result(s), newest first\n", len(results))
	sb.WriteString(strings.Repeat("=", 40))
	sb.WriteString("\n")

	for _, result := range results {
		w.writeResult(&sb, result)
	}

	return io.WriteString(w.output, sb.String())
}

// WriteOne outputs a single result. The recognized text comes first so
// the common case (piping the text somewhere) needs no post-processing.
func (w *SimpleWriter) WriteOne(result *model.Result) (int, error) {
	var sb strings.Builder

	sb.WriteString(result.Text)
	sb.WriteString("\n")

	if w.verbose {
		fmt.Fprintf(&sb, "\ncaptured:   %s\n", result.Timestamp.Format(timestampFormat))
		fmt.Fprintf(&sb, "confidence: %.1f\n", result.Confidence)
		fmt.Fprintf(&sb, "id:         %s\n", result.ID)
		if result.ScreenshotPath != "" {
			fmt.Fprintf(&sb, "screenshot: %s\n", result.ScreenshotPath)
		}
		if result.ImageHash != "" {
			fmt.Fprintf(&sb, "image hash: %s\n", result.ImageHash)
		}
	}

	return io.WriteString(w.output, sb.String())
}

// writeResult appends one history entry to the builder.
func (w *SimpleWriter) writeResult(sb *strings.Builder, result *model.Result) {
	fmt.Fprintf(sb, "\n[%s] confidence %.1f\n", result.Timestamp.Format(timestampFormat), result.Confidence)
	sb.WriteString(result.Text)
	sb.WriteString("\n")

	if w.verbose {
		fmt.Fprintf(sb, "  id: %s\n", result.ID)
		if result.ScreenshotPath != "" {
			fmt.Fprintf(sb, "  screenshot: %s\n", result.ScreenshotPath)
		}
		if result.ImageHash != "" {
			fmt.Fprintf(sb, "  image hash: %s\n", result.ImageHash)
		}
	}
}
