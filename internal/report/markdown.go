package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/instanttext/instanttext/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full history in Markdown format.
func (w *MarkdownWriter) Write(results []*model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Capture History")
	md.PlainText("")

	if len(results) == 0 {
		md.Note("No results in history yet.")
		return len(md.String()), md.Build()
	}

	w.writeSummary(md, results)
	w.writeResults(md, results)

	return len(md.String()), md.Build()
}

// WriteOne outputs a single result in Markdown format.
func (w *MarkdownWriter) WriteOne(result *model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Capture Result")
	md.PlainText("")
	w.writeResult(md, result)

	return len(md.String()), md.Build()
}

// writeSummary writes the history summary table with a confidence
// distribution chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, results []*model.Result) {
	md.H2("Summary")
	md.PlainText("")

	var high, medium, low, empty int
	for _, result := range results {
		switch {
		case result.IsEmpty():
			empty++
		case result.Confidence >= 80:
			high++
		case result.Confidence >= 50:
			medium++
		default:
			low++
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Results", strconv.Itoa(len(results))},
			{"Newest", results[0].Timestamp.Format(timestampFormat)},
			{"Oldest", results[len(results)-1].Timestamp.Format(timestampFormat)},
		},
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Recognition Confidence Distribution"),
		piechart.WithShowData(true),
	)
	if high > 0 {
		chart.LabelAndIntValue("High (80-100)", uint64(high))
	}
	if medium > 0 {
		chart.LabelAndIntValue("Medium (50-79)", uint64(medium))
	}
	if low > 0 {
		chart.LabelAndIntValue("Low (0-49)", uint64(low))
	}
	if empty > 0 {
		chart.LabelAndIntValue("No text detected", uint64(empty))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResults writes one section per result, newest first.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []*model.Result) {
	md.H2("Results")
	md.PlainText("")

	for _, result := range results {
		md.H3(result.Timestamp.Format(timestampFormat))
		md.PlainText("")
		w.writeResult(md, result)
	}
}

// writeResult writes the text and metadata of one result.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, result *model.Result) {
	md.CodeBlocks(markdown.SyntaxHighlightText, result.Text)
	md.PlainText("")

	rows := [][]string{
		{"Captured", result.Timestamp.Format(timestampFormat)},
		{"Confidence", strconv.FormatFloat(result.Confidence, 'f', 1, 64)},
		{"ID", "`" + result.ID + "`"},
	}
	if result.ScreenshotPath != "" {
		rows = append(rows, []string{"Screenshot", "`" + result.ScreenshotPath + "`"})
	}
	if result.ImageHash != "" {
		rows = append(rows, []string{"Image hash", "`" + result.ImageHash + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}
