// Package report provides output formatting for recognition results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for documentation and sharing
//
// Design decision: We separate result formatting from result storage
// (the history package) so new output formats never touch the database
// layer. Writers implement the Writer interface, allowing them to be
// used interchangeably and composed for multi-format output.
package report
