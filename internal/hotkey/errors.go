package hotkey

import "errors"

// Hotkey registration errors.
var (
	// ErrInvalidHotkeySpec is returned when a hotkey string cannot be
	// parsed. Valid specs look like "ctrl+shift+o": one or more
	// modifiers joined with '+', ending in a single key.
	ErrInvalidHotkeySpec = errors.New("invalid hotkey")

	// ErrHotkeyConflict is returned when the combination is already
	// claimed by another process-level consumer.
	ErrHotkeyConflict = errors.New("hotkey already in use")
)
