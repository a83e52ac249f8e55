package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/instanttext/instanttext/internal/capture"
	"github.com/instanttext/instanttext/internal/history"
	"github.com/instanttext/instanttext/internal/model"
	"github.com/instanttext/instanttext/internal/ocr"
	"github.com/instanttext/instanttext/internal/pipeline"
)

// EngineStatus reports the OCR engine's readiness. The orchestrator
// checks it before accepting a capture so a user pressing the hotkey
// during engine spin-up gets a clear rejection instead of a slow
// pipeline failure.
type EngineStatus interface {
	Ready() bool
	InitError() string
}

// Orchestrator is the single logical actor coordinating capture,
// recognition, and persistence. All state transitions happen under one
// mutex; the pipeline itself runs outside the lock so observers can
// read state while a capture is in flight.
//
// Design decision: Failure is not a standing state. A failed attempt
// records a human-readable message and returns to Idle immediately, so
// the caller never has to acknowledge a failure before retrying.
type Orchestrator struct {
	// mu guards state, lastResult, lastFailure, and subscribers.
	mu sync.Mutex

	// state is the current position in the capture cycle.
	state State

	// lastResult is the most recent finalized result.
	lastResult *model.Result

	// lastFailure is the human-readable message of the most recent
	// failed attempt, cleared on success.
	lastFailure string

	// engine reports OCR readiness for the capture guard.
	engine EngineStatus

	// pipe runs the capture-recognize-persist sequence.
	pipe *pipeline.Pipeline

	// subscribers receive a snapshot after every transition.
	subscribers map[int]chan Snapshot

	// nextSubID identifies subscribers for unsubscription.
	nextSubID int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator running the given steps in order.
// The steps are wrapped in a pipeline whose transitions feed the
// observable state: the capture step surfaces as StateCapturing, the
// recognize step as StateRecognizing, the persist step as
// StatePersisting.
func New(engine EngineStatus, steps []pipeline.Step, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:       StateIdle,
		engine:      engine,
		subscribers: make(map[int]chan Snapshot),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	o.pipe = pipeline.New(
		pipeline.WithLogger(o.logger),
		pipeline.WithStepHook(o.onStep),
	)
	o.pipe.AddSteps(steps...)

	return o
}

// onStep publishes the state matching the step about to run.
func (o *Orchestrator) onStep(stepName string) {
	var next State
	switch stepName {
	case pipeline.StepCapture:
		next = StateCapturing
	case pipeline.StepRecognize:
		next = StateRecognizing
	case pipeline.StepPersist:
		next = StatePersisting
	default:
		return
	}

	o.mu.Lock()
	o.state = next
	o.publishLocked()
	o.mu.Unlock()
}

// RequestCapture runs one capture attempt for the given region (nil for
// full screen). It rejects with ocr.ErrEngineNotReady when the engine
// is not Ready and with ErrCaptureInProgress when the orchestrator is
// not Idle. On success it returns the finalized, already-persisted
// result.
func (o *Orchestrator) RequestCapture(ctx context.Context, region *model.CaptureRegion) (*model.Result, error) {
	if err := o.claim(StateIdle, ErrCaptureInProgress); err != nil {
		return nil, err
	}
	return o.run(ctx, region)
}

// BeginSelection moves the orchestrator into AwaitingRegionSelection,
// where it stays until ProvideRegion, CaptureFullScreen, or
// CancelCapture resolves the wait. The wait has no timeout.
func (o *Orchestrator) BeginSelection() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.engine.Ready() {
		return o.engineNotReadyLocked()
	}
	if o.state != StateIdle {
		return fmt.Errorf("%w: orchestrator is %s", ErrCaptureInProgress, o.state)
	}

	o.state = StateAwaitingRegionSelection
	o.publishLocked()
	o.logger.Debug("awaiting region selection")
	return nil
}

// ProvideRegion resolves a pending region selection and runs the
// capture attempt for that region.
func (o *Orchestrator) ProvideRegion(ctx context.Context, region *model.CaptureRegion) (*model.Result, error) {
	if err := o.claim(StateAwaitingRegionSelection, ErrNoPendingSelection); err != nil {
		return nil, err
	}
	return o.run(ctx, region)
}

// CaptureFullScreen resolves a pending region selection with the
// full-screen fallback.
func (o *Orchestrator) CaptureFullScreen(ctx context.Context) (*model.Result, error) {
	return o.ProvideRegion(ctx, nil)
}

// CancelCapture abandons a pending region selection and returns to
// Idle without creating a result. It is only meaningful during
// AwaitingRegionSelection; once the pipeline has begun the attempt
// runs to completion or failure.
func (o *Orchestrator) CancelCapture() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateAwaitingRegionSelection {
		return fmt.Errorf("%w: orchestrator is %s", ErrNoPendingSelection, o.state)
	}

	o.state = StateIdle
	o.publishLocked()
	o.logger.Debug("region selection cancelled")
	return nil
}

// claim atomically checks the engine guard and the expected state, then
// marks the pipeline as started. wrongState is returned when the
// orchestrator is in any state other than from.
func (o *Orchestrator) claim(from State, wrongState error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.engine.Ready() {
		return o.engineNotReadyLocked()
	}
	if o.state != from {
		return fmt.Errorf("%w: orchestrator is %s", wrongState, o.state)
	}

	// Claim the pipeline before releasing the lock so a concurrent
	// request observes non-Idle and is rejected.
	o.state = StateCapturing
	o.publishLocked()
	return nil
}

// engineNotReadyLocked builds the rejection for a capture attempted
// before the engine is Ready.
func (o *Orchestrator) engineNotReadyLocked() error {
	if msg := o.engine.InitError(); msg != "" {
		return fmt.Errorf("%w: %s", ocr.ErrEngineNotReady, msg)
	}
	return ocr.ErrEngineNotReady
}

// run executes the pipeline for one claimed attempt and settles the
// orchestrator back to Idle.
func (o *Orchestrator) run(ctx context.Context, region *model.CaptureRegion) (*model.Result, error) {
	attempt := model.NewAttempt(region)
	err := o.pipe.Execute(ctx, attempt)

	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateIdle
	if err != nil {
		o.lastFailure = FailureMessage(err)
		o.publishLocked()
		o.logger.Error("capture attempt failed", "error", err, "message", o.lastFailure)
		return nil, err
	}

	o.lastResult = attempt.Result
	o.lastFailure = ""
	o.publishLocked()
	o.logger.Info("capture attempt completed",
		"result_id", attempt.Result.ID,
		"chars", len(attempt.Result.Text),
		"confidence", attempt.Result.Confidence,
	)
	return attempt.Result, nil
}

// Run consumes trigger events until ctx is cancelled or the channel is
// closed. Each trigger starts a full-screen capture; triggers arriving
// while an attempt is in flight are dropped, preserving the
// single-flight policy without queueing stale requests.
func (o *Orchestrator) Run(ctx context.Context, triggers <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-triggers:
			if !ok {
				return nil
			}

			if _, err := o.RequestCapture(ctx, nil); err != nil {
				switch {
				case errors.Is(err, ErrCaptureInProgress):
					o.logger.Warn("trigger dropped, capture already in progress")
				case errors.Is(err, ocr.ErrEngineNotReady):
					o.logger.Warn("trigger dropped, ocr engine not ready", "error", err)
				default:
					// Already logged by run with the user-facing message.
				}
			}
		}
	}
}

// Subscribe registers an observer of state transitions. It returns the
// snapshot channel and an unsubscribe function. Slow subscribers miss
// intermediate snapshots rather than blocking the orchestrator.
func (o *Orchestrator) Subscribe() (<-chan Snapshot, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSubID
	o.nextSubID++

	ch := make(chan Snapshot, 8)
	o.subscribers[id] = ch

	return ch, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subscribers, id)
	}
}

// Current returns the present observable state.
func (o *Orchestrator) Current() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// snapshotLocked builds the observable state. Callers hold mu.
func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		State:          o.state,
		LastResult:     o.lastResult,
		OCRReady:       o.engine.Ready(),
		InitError:      o.engine.InitError(),
		FailureMessage: o.lastFailure,
	}
}

// publishLocked sends the current snapshot to all subscribers without
// blocking. Callers hold mu.
func (o *Orchestrator) publishLocked() {
	snap := o.snapshotLocked()
	for _, ch := range o.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// FailureMessage translates a pipeline error into a human-readable
// message that tells the user whether to retry, check permissions, or
// check disk space.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrNoDisplay),
		errors.Is(err, capture.ErrRegionOutsideDisplay),
		errors.Is(err, capture.ErrCaptureFailed):
		return "Screen capture failed. Check that a display is available and screen recording is permitted."
	case errors.Is(err, ocr.ErrEngineNotReady):
		return "Text recognition is not available yet. Wait for the OCR engine to finish starting."
	case errors.Is(err, ocr.ErrRecognitionFailed):
		return "Text recognition failed. Try capturing again."
	case errors.Is(err, history.ErrHistoryWriteFailed):
		return "Saving the result failed. Check disk space and history database permissions."
	default:
		return "Capture failed. Try again."
	}
}
