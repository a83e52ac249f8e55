package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/instanttext/instanttext/internal/capture"
	"github.com/instanttext/instanttext/internal/clipboard"
	"github.com/instanttext/instanttext/internal/model"
	"github.com/instanttext/instanttext/internal/ocr"
	"github.com/instanttext/instanttext/internal/settings"
)

// Step names, also used by the orchestrator to derive its public state.
const (
	StepCapture   = "capture"
	StepRecognize = "recognize"
	StepPersist   = "persist"
)

// SettingsSource provides the current settings snapshot. Steps read a
// fresh snapshot each run so mid-flight settings changes apply to the
// next capture without restarting anything.
type SettingsSource interface {
	Get() settings.Settings
}

// Recognizer extracts text from a PNG-encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, imageBytes []byte) (ocr.Recognition, error)
}

// Appender stores one finalized result.
type Appender interface {
	Append(ctx context.Context, result *model.Result) error
}

// CaptureStep grabs the screen region and optionally saves the
// screenshot to disk.
//
// Design decision: Screenshot saving failures are logged but do not
// fail the step. The user asked for text, not a file; a full disk
// should not cost them the recognition they triggered.
type CaptureStep struct {
	// capturer grabs the screen.
	capturer capture.Capturer

	// settings supplies the retention snapshot for this run.
	settings SettingsSource

	// timeout bounds a single capture. Zero disables the bound.
	timeout time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// CaptureStepOption configures a CaptureStep.
type CaptureStepOption func(*CaptureStep)

// WithCaptureLogger sets a custom logger for the capture step.
func WithCaptureLogger(logger *slog.Logger) CaptureStepOption {
	return func(s *CaptureStep) {
		s.logger = logger
	}
}

// WithCaptureTimeout bounds how long a single capture may take.
// Zero disables the bound.
func WithCaptureTimeout(timeout time.Duration) CaptureStepOption {
	return func(s *CaptureStep) {
		s.timeout = timeout
	}
}

// NewCaptureStep creates a new screen capture step.
func NewCaptureStep(capturer capture.Capturer, source SettingsSource, opts ...CaptureStepOption) *CaptureStep {
	s := &CaptureStep{
		capturer: capturer,
		settings: source,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CaptureStep) Name() string {
	return StepCapture
}

// Do executes the capture step.
func (s *CaptureStep) Do(ctx context.Context, attempt *model.Attempt) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	img, err := s.capturer.Capture(ctx, attempt.Region)
	if err != nil {
		return err
	}

	attempt.ImageBytes = img.Bytes
	attempt.ImageHash = img.Hash

	snap := s.settings.Get()
	if snap.SaveScreenshots {
		path, err := capture.SaveScreenshot(snap.ScreenshotsDir, img.Bytes, img.CapturedAt)
		if err != nil {
			s.logger.Warn("failed to save screenshot", "dir", snap.ScreenshotsDir, "error", err)
		} else {
			attempt.ScreenshotPath = path
			s.logger.Debug("screenshot saved", "path", path)
		}
	}

	return nil
}

// RecognizeStep runs OCR on the captured image and builds the Result.
type RecognizeStep struct {
	// recognizer extracts text from the captured image.
	recognizer Recognizer

	// timeout bounds a single recognition. Zero disables the bound.
	timeout time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// RecognizeStepOption configures a RecognizeStep.
type RecognizeStepOption func(*RecognizeStep)

// WithRecognizeLogger sets a custom logger for the recognize step.
func WithRecognizeLogger(logger *slog.Logger) RecognizeStepOption {
	return func(s *RecognizeStep) {
		s.logger = logger
	}
}

// WithRecognizeTimeout bounds how long a single recognition may take.
// Zero disables the bound.
func WithRecognizeTimeout(timeout time.Duration) RecognizeStepOption {
	return func(s *RecognizeStep) {
		s.timeout = timeout
	}
}

// NewRecognizeStep creates a new text recognition step.
func NewRecognizeStep(recognizer Recognizer, opts ...RecognizeStepOption) *RecognizeStep {
	s := &RecognizeStep{
		recognizer: recognizer,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RecognizeStep) Name() string {
	return StepRecognize
}

// Do executes the recognition step.
func (s *RecognizeStep) Do(ctx context.Context, attempt *model.Attempt) error {
	if len(attempt.ImageBytes) == 0 {
		return errors.New("no captured image to recognize")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rec, err := s.recognizer.Recognize(ctx, attempt.ImageBytes)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	attempt.Text = rec.Text
	attempt.Confidence = rec.Confidence
	attempt.Result = model.NewResult(rec.Text, rec.Confidence, attempt.ScreenshotPath, attempt.ImageHash)

	s.logger.Debug("text recognized",
		"chars", len(attempt.Result.Text),
		"confidence", attempt.Result.Confidence,
	)

	return nil
}

// PersistStep appends the result to history and copies the text to the
// clipboard when auto-copy is enabled.
//
// Design decision: History comes first and is the only fatal part.
// Clipboard failures are logged and swallowed; the result is already
// durable at that point and the history view can still surface it.
type PersistStep struct {
	// history receives the finalized result.
	history Appender

	// clip is the system clipboard.
	clip clipboard.Clipboard

	// settings supplies the auto-copy snapshot for this run.
	settings SettingsSource

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a new persistence step.
func NewPersistStep(history Appender, clip clipboard.Clipboard, source SettingsSource, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		history:  history,
		clip:     clip,
		settings: source,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return StepPersist
}

// Do executes the persistence step.
func (s *PersistStep) Do(ctx context.Context, attempt *model.Attempt) error {
	if attempt.Result == nil {
		return errors.New("no result to persist")
	}

	if err := s.history.Append(ctx, attempt.Result); err != nil {
		return err
	}

	snap := s.settings.Get()
	if snap.AutoCopyToClipboard {
		if err := s.clip.SetText(attempt.Result.Text); err != nil {
			s.logger.Warn("failed to copy text to clipboard", "error", err)
		} else {
			s.logger.Debug("text copied to clipboard", "chars", len(attempt.Result.Text))
		}
	}

	return nil
}
