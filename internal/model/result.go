package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoTextPlaceholder is stored as the Result text when recognition
// completes without detecting any text. Persisting a sentinel instead of
// an empty string keeps history entries and clipboard pushes meaningful.
const NoTextPlaceholder = "No text detected"

// Result is the immutable record of one completed capture-and-recognize
// cycle. It is created exclusively by the orchestrator's recognize step and
// never mutated afterwards.
//
// Design decision: Result carries no reference to the Settings that were
// active when it was created. The auto-copy decision is made against a fresh
// Settings snapshot at persist time and intentionally not stored, so a
// settings change takes effect on the very next capture.
type Result struct {
	// ID is an opaque unique identifier (UUID v4).
	ID string `json:"id"`

	// Text is the recognized text. Never empty: when the engine returns
	// nothing, NoTextPlaceholder is stored instead.
	Text string `json:"text"`

	// Timestamp is the capture instant in UTC.
	Timestamp time.Time `json:"timestamp"`

	// ScreenshotPath is the saved screenshot location. Empty when
	// screenshot retention is disabled in settings.
	ScreenshotPath string `json:"screenshot_path,omitempty"`

	// ImageHash is the BLAKE2b-256 hex digest of the captured PNG bytes.
	// It ties a history entry to the exact pixels that produced it even
	// when the screenshot file itself is not retained.
	ImageHash string `json:"image_hash,omitempty"`

	// Confidence is the engine's recognition confidence in [0, 100].
	Confidence float64 `json:"confidence"`
}

// NewResult builds a Result from the recognize step's output.
// Empty or whitespace-only text is replaced with NoTextPlaceholder, and the
// confidence score is clamped into [0, 100].
func NewResult(text string, confidence float64, screenshotPath, imageHash string) *Result {
	text = strings.TrimSpace(text)
	if text == "" {
		text = NoTextPlaceholder
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return &Result{
		ID:             uuid.NewString(),
		Text:           text,
		Timestamp:      time.Now().UTC(),
		ScreenshotPath: screenshotPath,
		ImageHash:      imageHash,
		Confidence:     confidence,
	}
}

// IsEmpty reports whether the result carries the no-text sentinel
// rather than recognized text.
func (r *Result) IsEmpty() bool {
	return r.Text == NoTextPlaceholder
}
