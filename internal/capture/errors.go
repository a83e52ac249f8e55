package capture

import "errors"

// Capture errors.
var (
	// ErrCaptureFailed is the umbrella error for any failed screen
	// capture. Specific causes are wrapped alongside it so callers can
	// match with errors.Is while users still see the underlying reason.
	ErrCaptureFailed = errors.New("screen capture failed")

	// ErrNoDisplay is returned when no active display is found, commonly
	// when running headless or without display access permissions.
	ErrNoDisplay = errors.New("no active display found")

	// ErrRegionOutsideDisplay is returned when the requested region does
	// not overlap the primary display at all.
	ErrRegionOutsideDisplay = errors.New("capture region is outside the display bounds")
)
