package capture

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/kbinani/screenshot"
	"golang.org/x/crypto/blake2b"

	"github.com/instanttext/instanttext/internal/model"
)

// Image is one captured screen image, PNG-encoded and content-addressed.
type Image struct {
	// Bytes is the PNG-encoded image.
	Bytes []byte

	// Hash is the BLAKE2b-256 hex digest of Bytes.
	Hash string

	// Width and Height are the final image dimensions in pixels,
	// after any region crop.
	Width  int
	Height int

	// CapturedAt is the capture instant in UTC.
	CapturedAt time.Time
}

// Capturer is the capture service collaborator consumed by the pipeline.
// A nil region means capture the full primary display.
type Capturer interface {
	Capture(ctx context.Context, region *model.CaptureRegion) (*Image, error)
}

// ScreenCapturer captures the primary display.
//
// Design decision: The capture always grabs the full display and crops to
// the region afterwards rather than grabbing the region rectangle
// directly. Cropping in-process keeps region handling (clamping,
// out-of-bounds detection) in one testable place instead of depending on
// per-platform behavior of partial grabs.
type ScreenCapturer struct {
	// grab, numDisplays, and displayBounds wrap the screenshot library so
	// tests can substitute synthetic displays.
	grab          func(rect image.Rectangle) (*image.RGBA, error)
	numDisplays   func() int
	displayBounds func(index int) image.Rectangle

	// logger is used for structured logging.
	logger *slog.Logger
}

// ScreenCapturerOption configures a ScreenCapturer.
type ScreenCapturerOption func(*ScreenCapturer)

// WithCaptureLogger sets a custom logger for the capturer.
func WithCaptureLogger(logger *slog.Logger) ScreenCapturerOption {
	return func(c *ScreenCapturer) {
		c.logger = logger
	}
}

// NewScreenCapturer creates a capturer backed by the screenshot library.
func NewScreenCapturer(opts ...ScreenCapturerOption) *ScreenCapturer {
	c := &ScreenCapturer{
		grab:          screenshot.CaptureRect,
		numDisplays:   screenshot.NumActiveDisplays,
		displayBounds: screenshot.GetDisplayBounds,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Capture grabs the primary display and crops to the optional region.
// The region is clamped to the display bounds; a region that does not
// overlap the display at all is a capture failure.
func (c *ScreenCapturer) Capture(ctx context.Context, region *model.CaptureRegion) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	if c.numDisplays() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, ErrNoDisplay)
	}

	displayRect := c.displayBounds(0)
	grabbed, err := c.grab(displayRect)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	var final image.Image = grabbed
	if region != nil {
		cropped, err := cropToRegion(grabbed, displayRect, region)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
		}
		final = cropped
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, final); err != nil {
		return nil, fmt.Errorf("%w: failed to encode image: %w", ErrCaptureFailed, err)
	}

	digest := blake2b.Sum256(buf.Bytes())
	img := &Image{
		Bytes:      buf.Bytes(),
		Hash:       hex.EncodeToString(digest[:]),
		Width:      final.Bounds().Dx(),
		Height:     final.Bounds().Dy(),
		CapturedAt: time.Now().UTC(),
	}

	c.logger.Debug("captured screen",
		"width", img.Width,
		"height", img.Height,
		"bytes", len(img.Bytes),
		"region", region != nil,
	)
	return img, nil
}

// cropToRegion crops a grabbed display image to the requested region.
// The region is given in screen coordinates; the grabbed image's own
// coordinate space starts at (0,0), so the region is translated by the
// display origin before cropping.
func cropToRegion(grabbed *image.RGBA, displayRect image.Rectangle, region *model.CaptureRegion) (image.Image, error) {
	if err := region.Validate(); err != nil {
		return nil, err
	}

	visible := region.Rect().Intersect(displayRect)
	if visible.Empty() {
		return nil, fmt.Errorf("%w: region %s, display %v", ErrRegionOutsideDisplay, region, displayRect)
	}

	relative := visible.Sub(displayRect.Min)
	return imaging.Crop(grabbed, relative), nil
}
