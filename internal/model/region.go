package model

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Region parsing and validation errors.
var (
	// ErrInvalidRegionSpec is returned when a region string cannot be
	// parsed. The expected format is "x,y,width,height".
	ErrInvalidRegionSpec = errors.New("invalid region: expected \"x,y,width,height\"")

	// ErrEmptyRegion is returned when a region has a non-positive width
	// or height. Capturing a zero-area region can never produce text.
	ErrEmptyRegion = errors.New("invalid region: width and height must be positive")
)

// CaptureRegion is a rectangle in screen coordinates selected for capture.
// It is an ephemeral input to the orchestrator and is never persisted.
// A nil *CaptureRegion means capture the full screen.
type CaptureRegion struct {
	// X and Y are the top-left corner in screen coordinates.
	// They may be negative on multi-monitor setups.
	X int `json:"x"`
	Y int `json:"y"`

	// Width and Height are the region dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ParseRegion parses a "x,y,width,height" string into a CaptureRegion.
// This is the format accepted by the capture command's --region flag.
func ParseRegion(s string) (*CaptureRegion, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidRegionSpec, s)
	}

	values := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidRegionSpec, s)
		}
		values[i] = v
	}

	region := &CaptureRegion{X: values[0], Y: values[1], Width: values[2], Height: values[3]}
	if err := region.Validate(); err != nil {
		return nil, err
	}
	return region, nil
}

// Validate checks that the region has a positive area.
func (r *CaptureRegion) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrEmptyRegion, r.Width, r.Height)
	}
	return nil
}

// Rect converts the region to an image.Rectangle.
func (r *CaptureRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// String returns the region in the same "x,y,width,height" format
// accepted by ParseRegion.
func (r *CaptureRegion) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}
