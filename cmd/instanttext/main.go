// Package main provides the entry point for the InstantText CLI.
//
// InstantText turns any part of the screen into editable text. It
// captures a screen region, runs OCR on it, stores the result in a
// local history, and optionally copies the text to the clipboard.
//
// Usage:
//
//	instanttext run
//	instanttext capture --region 100,100,400,200
//	instanttext history --limit 10
//
// See --help for all available options.
package main

// main is the entry point for InstantText.
func main() {
	Execute()
}
