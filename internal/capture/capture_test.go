package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/instanttext/instanttext/internal/model"
)

// newTestCapturer returns a ScreenCapturer backed by a synthetic display
// of the given bounds filled with a color gradient.
func newTestCapturer(t *testing.T, displayRect image.Rectangle) *ScreenCapturer {
	t.Helper()

	c := NewScreenCapturer()
	c.numDisplays = func() int { return 1 }
	c.displayBounds = func(_ int) image.Rectangle { return displayRect }
	c.grab = func(rect image.Rectangle) (*image.RGBA, error) {
		img := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
		for y := 0; y < rect.Dy(); y++ {
			for x := 0; x < rect.Dx(); x++ {
				img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0, A: 255})
			}
		}
		return img, nil
	}
	return c
}

// decodePNG decodes captured bytes back into an image.
func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode captured PNG: %v", err)
	}
	return img
}

// TestScreenCapturerCapture tests full-screen and region capture.
func TestScreenCapturerCapture(t *testing.T) {
	t.Parallel()

	t.Run("captures full display without region", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))

		img, err := c.Capture(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Width != 200 || img.Height != 100 {
			t.Errorf("expected 200x100, got %dx%d", img.Width, img.Height)
		}
		if img.Hash == "" {
			t.Error("expected non-empty image hash")
		}
		if img.CapturedAt.IsZero() {
			t.Error("expected capture timestamp")
		}

		decoded := decodePNG(t, img.Bytes)
		if decoded.Bounds().Dx() != 200 || decoded.Bounds().Dy() != 100 {
			t.Errorf("decoded size mismatch: %v", decoded.Bounds())
		}
	})

	t.Run("crops to region", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))
		region := &model.CaptureRegion{X: 10, Y: 20, Width: 50, Height: 30}

		img, err := c.Capture(context.Background(), region)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Width != 50 || img.Height != 30 {
			t.Errorf("expected 50x30, got %dx%d", img.Width, img.Height)
		}
	})

	t.Run("clamps region overlapping display edge", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))
		region := &model.CaptureRegion{X: 150, Y: 80, Width: 100, Height: 100}

		img, err := c.Capture(context.Background(), region)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Width != 50 || img.Height != 20 {
			t.Errorf("expected clamped 50x20, got %dx%d", img.Width, img.Height)
		}
	})

	t.Run("rejects region outside display", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))
		region := &model.CaptureRegion{X: 500, Y: 500, Width: 10, Height: 10}

		_, err := c.Capture(context.Background(), region)
		if !errors.Is(err, ErrCaptureFailed) {
			t.Errorf("expected ErrCaptureFailed, got %v", err)
		}
		if !errors.Is(err, ErrRegionOutsideDisplay) {
			t.Errorf("expected ErrRegionOutsideDisplay, got %v", err)
		}
	})

	t.Run("rejects zero-area region", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))
		region := &model.CaptureRegion{X: 0, Y: 0, Width: 0, Height: 10}

		_, err := c.Capture(context.Background(), region)
		if !errors.Is(err, model.ErrEmptyRegion) {
			t.Errorf("expected ErrEmptyRegion, got %v", err)
		}
	})

	t.Run("fails without a display", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))
		c.numDisplays = func() int { return 0 }

		_, err := c.Capture(context.Background(), nil)
		if !errors.Is(err, ErrNoDisplay) {
			t.Errorf("expected ErrNoDisplay, got %v", err)
		}
	})

	t.Run("fails when grab fails", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))
		c.grab = func(_ image.Rectangle) (*image.RGBA, error) {
			return nil, errors.New("display disconnected")
		}

		_, err := c.Capture(context.Background(), nil)
		if !errors.Is(err, ErrCaptureFailed) {
			t.Errorf("expected ErrCaptureFailed, got %v", err)
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 200, 100))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Capture(ctx, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("identical pixels hash identically", func(t *testing.T) {
		t.Parallel()

		c := newTestCapturer(t, image.Rect(0, 0, 64, 64))

		a, err := c.Capture(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := c.Capture(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Hash != b.Hash {
			t.Errorf("expected identical hashes, got %s and %s", a.Hash, b.Hash)
		}
	})
}

// TestSaveScreenshot tests screenshot file persistence.
func TestSaveScreenshot(t *testing.T) {
	t.Parallel()

	t.Run("writes file with timestamped name", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "shots")
		capturedAt := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

		path, err := SaveScreenshot(dir, []byte("png-data"), capturedAt)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasSuffix(path, "screenshot_20260314_150926.png") {
			t.Errorf("unexpected file name: %s", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read saved screenshot: %v", err)
		}
		if string(data) != "png-data" {
			t.Error("saved content mismatch")
		}
	})

	t.Run("fails when directory cannot be created", func(t *testing.T) {
		t.Parallel()

		// A file blocking the directory path.
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		_, err := SaveScreenshot(filepath.Join(blocker, "sub"), []byte("png"), time.Now())
		if err == nil {
			t.Error("expected error when directory creation fails")
		}
	})
}
