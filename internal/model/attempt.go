package model

import "time"

// Attempt is the mutable working state of one capture-to-text pipeline run.
// Pipeline steps fill it in sequence: the capture step stores the image, the
// recognize step stores text and confidence and builds the Result, and the
// persist step records the Result in history.
//
// Design decision: We accumulate state in a single struct passed through the
// steps rather than threading individual values between them. This mirrors
// how each step only needs a subset of what earlier steps produced, and it
// keeps the Step interface uniform.
type Attempt struct {
	// Region is the requested capture region. Nil means full screen.
	Region *CaptureRegion

	// StartedAt is when the attempt was accepted by the orchestrator.
	StartedAt time.Time

	// ImageBytes holds the PNG-encoded captured image.
	ImageBytes []byte

	// ImageHash is the BLAKE2b-256 hex digest of ImageBytes.
	ImageHash string

	// ScreenshotPath is where the capture step saved the screenshot,
	// or empty when screenshot retention is disabled.
	ScreenshotPath string

	// Text and Confidence are the raw engine output before Result
	// construction applies defaults.
	Text       string
	Confidence float64

	// Result is the finalized record, set by the recognize step.
	Result *Result

	// PerformedSteps records which steps ran, in order.
	PerformedSteps []string
}

// NewAttempt creates an Attempt for the given region (nil for full screen).
func NewAttempt(region *CaptureRegion) *Attempt {
	return &Attempt{
		Region:    region,
		StartedAt: time.Now().UTC(),
	}
}
