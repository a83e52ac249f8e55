// Package clipboard pushes recognized text to the system clipboard.
//
// Clipboard failures are deliberately non-fatal to the capture pipeline:
// a Result is still valid even when the desktop environment refuses the
// copy, so callers log the error and move on.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardFailed is returned when writing to the system clipboard
// fails, e.g. when no clipboard utility is available on the host.
var ErrClipboardFailed = errors.New("failed to copy text to clipboard")

// Clipboard is the clipboard service collaborator consumed by the
// pipeline's persist step.
type Clipboard interface {
	// SetText replaces the clipboard content with text.
	SetText(text string) error
}

// SystemClipboard writes to the real system clipboard.
type SystemClipboard struct{}

// NewSystemClipboard creates the system clipboard collaborator.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// SetText implements Clipboard.
func (c *SystemClipboard) SetText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboardFailed, err)
	}
	return nil
}
