package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/instanttext/instanttext/internal/capture"
	"github.com/instanttext/instanttext/internal/history"
	"github.com/instanttext/instanttext/internal/model"
	"github.com/instanttext/instanttext/internal/ocr"
	"github.com/instanttext/instanttext/internal/pipeline"
)

// fakeEngine is an EngineStatus with settable readiness.
type fakeEngine struct {
	mu      sync.Mutex
	ready   bool
	initErr string
}

// Ready implements EngineStatus.
func (f *fakeEngine) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

// InitError implements EngineStatus.
func (f *fakeEngine) InitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initErr
}

// testStep is a pipeline.Step driven by a function.
type testStep struct {
	name string
	fn   func(ctx context.Context, attempt *model.Attempt) error
}

// Do implements pipeline.Step.
func (s *testStep) Do(ctx context.Context, attempt *model.Attempt) error {
	if s.fn != nil {
		return s.fn(ctx, attempt)
	}
	return nil
}

// Name implements pipeline.Step.
func (s *testStep) Name() string {
	return s.name
}

// countingPersist is a persist step counting finalized results.
type countingPersist struct {
	mu    sync.Mutex
	count int
	err   error
}

// Do implements pipeline.Step.
func (s *countingPersist) Do(_ context.Context, _ *model.Attempt) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return nil
}

// Name implements pipeline.Step.
func (s *countingPersist) Name() string {
	return pipeline.StepPersist
}

// Count returns the number of persisted results.
func (s *countingPersist) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// happySteps builds a three-step pipeline that succeeds and persists
// into the given counter.
func happySteps(persist *countingPersist) []pipeline.Step {
	return []pipeline.Step{
		&testStep{name: pipeline.StepCapture, fn: func(_ context.Context, a *model.Attempt) error {
			a.ImageBytes = []byte("png")
			a.ImageHash = "deadbeef"
			return nil
		}},
		&testStep{name: pipeline.StepRecognize, fn: func(_ context.Context, a *model.Attempt) error {
			a.Result = model.NewResult("hello", 90, "", a.ImageHash)
			return nil
		}},
		persist,
	}
}

// TestRequestCapture tests the guarded capture entry point.
func TestRequestCapture(t *testing.T) {
	t.Parallel()

	t.Run("returns the finalized result", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		o := New(&fakeEngine{ready: true}, happySteps(persist))

		result, err := o.RequestCapture(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result == nil || result.Text != "hello" {
			t.Fatalf("unexpected result: %+v", result)
		}
		if persist.Count() != 1 {
			t.Errorf("expected exactly 1 persisted result, got %d", persist.Count())
		}

		snap := o.Current()
		if snap.State != StateIdle {
			t.Errorf("expected idle, got %s", snap.State)
		}
		if snap.LastResult == nil || snap.LastResult.ID != result.ID {
			t.Errorf("last result not published: %+v", snap.LastResult)
		}
		if snap.FailureMessage != "" {
			t.Errorf("unexpected failure message: %q", snap.FailureMessage)
		}
	})

	t.Run("rejects when engine is not ready", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		o := New(&fakeEngine{ready: false, initErr: "tesseract missing"}, happySteps(persist))

		_, err := o.RequestCapture(context.Background(), nil)
		if !errors.Is(err, ocr.ErrEngineNotReady) {
			t.Fatalf("expected ErrEngineNotReady, got %v", err)
		}
		if persist.Count() != 0 {
			t.Errorf("no result should be persisted, got %d", persist.Count())
		}
		if o.Current().State != StateIdle {
			t.Errorf("expected idle, got %s", o.Current().State)
		}
	})

	t.Run("rejects concurrent captures with CaptureInProgress", func(t *testing.T) {
		t.Parallel()

		entered := make(chan struct{})
		release := make(chan struct{})
		persist := &countingPersist{}

		steps := []pipeline.Step{
			&testStep{name: pipeline.StepCapture, fn: func(_ context.Context, a *model.Attempt) error {
				close(entered)
				<-release
				a.ImageBytes = []byte("png")
				return nil
			}},
			&testStep{name: pipeline.StepRecognize, fn: func(_ context.Context, a *model.Attempt) error {
				a.Result = model.NewResult("hello", 90, "", "")
				return nil
			}},
			persist,
		}
		o := New(&fakeEngine{ready: true}, steps)

		done := make(chan error, 1)
		go func() {
			_, err := o.RequestCapture(context.Background(), nil)
			done <- err
		}()

		<-entered

		_, err := o.RequestCapture(context.Background(), nil)
		if !errors.Is(err, ErrCaptureInProgress) {
			t.Fatalf("expected ErrCaptureInProgress, got %v", err)
		}

		close(release)
		if err := <-done; err != nil {
			t.Fatalf("first capture failed: %v", err)
		}
		if persist.Count() != 1 {
			t.Errorf("expected exactly 1 persisted result, got %d", persist.Count())
		}
	})

	t.Run("failed recognition returns to idle without a result", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		steps := []pipeline.Step{
			&testStep{name: pipeline.StepCapture, fn: func(_ context.Context, a *model.Attempt) error {
				a.ImageBytes = []byte("png")
				return nil
			}},
			&testStep{name: pipeline.StepRecognize, fn: func(_ context.Context, _ *model.Attempt) error {
				return fmt.Errorf("%w: engine crashed", ocr.ErrRecognitionFailed)
			}},
			persist,
		}
		o := New(&fakeEngine{ready: true}, steps)

		_, err := o.RequestCapture(context.Background(), nil)
		if !errors.Is(err, ocr.ErrRecognitionFailed) {
			t.Fatalf("expected recognition failure, got %v", err)
		}
		if persist.Count() != 0 {
			t.Errorf("history should be unchanged, got %d appends", persist.Count())
		}

		snap := o.Current()
		if snap.State != StateIdle {
			t.Errorf("expected idle, got %s", snap.State)
		}
		if snap.FailureMessage == "" {
			t.Error("expected a failure message")
		}
		if snap.LastResult != nil {
			t.Errorf("failed attempt must not publish a result: %+v", snap.LastResult)
		}

		// The orchestrator accepts a fresh capture after the failure.
		if _, err := o.RequestCapture(context.Background(), nil); !errors.Is(err, ocr.ErrRecognitionFailed) {
			t.Errorf("expected the retry to run the pipeline again, got %v", err)
		}
	})

	t.Run("publishes state transitions in pipeline order", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		o := New(&fakeEngine{ready: true}, happySteps(persist))

		ch, unsubscribe := o.Subscribe()
		defer unsubscribe()

		if _, err := o.RequestCapture(context.Background(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var states []State
	drain:
		for {
			select {
			case snap := <-ch:
				states = append(states, snap.State)
			default:
				break drain
			}
		}

		want := []State{StateCapturing, StateCapturing, StateRecognizing, StatePersisting, StateIdle}
		if !reflect.DeepEqual(states, want) {
			t.Errorf("expected transitions %v, got %v", want, states)
		}
	})
}

// TestRegionSelection tests the AwaitingRegionSelection flow.
func TestRegionSelection(t *testing.T) {
	t.Parallel()

	t.Run("provide region resolves the wait", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		o := New(&fakeEngine{ready: true}, happySteps(persist))

		if err := o.BeginSelection(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Current().State != StateAwaitingRegionSelection {
			t.Fatalf("expected awaiting state, got %s", o.Current().State)
		}

		region := &model.CaptureRegion{X: 0, Y: 0, Width: 100, Height: 50}
		result, err := o.ProvideRegion(context.Background(), region)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result == nil {
			t.Fatal("expected a result")
		}
		if o.Current().State != StateIdle {
			t.Errorf("expected idle, got %s", o.Current().State)
		}
	})

	t.Run("full screen fallback resolves the wait", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		o := New(&fakeEngine{ready: true}, happySteps(persist))

		if err := o.BeginSelection(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := o.CaptureFullScreen(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if persist.Count() != 1 {
			t.Errorf("expected 1 persisted result, got %d", persist.Count())
		}
	})

	t.Run("cancel returns to idle without a result", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		o := New(&fakeEngine{ready: true}, happySteps(persist))

		if err := o.BeginSelection(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := o.CancelCapture(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if o.Current().State != StateIdle {
			t.Errorf("expected idle, got %s", o.Current().State)
		}
		if persist.Count() != 0 {
			t.Errorf("cancellation must not create a result, got %d", persist.Count())
		}
	})

	t.Run("cancel without pending selection is rejected", func(t *testing.T) {
		t.Parallel()

		o := New(&fakeEngine{ready: true}, happySteps(&countingPersist{}))

		if err := o.CancelCapture(); !errors.Is(err, ErrNoPendingSelection) {
			t.Errorf("expected ErrNoPendingSelection, got %v", err)
		}
	})

	t.Run("provide region without pending selection is rejected", func(t *testing.T) {
		t.Parallel()

		o := New(&fakeEngine{ready: true}, happySteps(&countingPersist{}))

		if _, err := o.ProvideRegion(context.Background(), nil); !errors.Is(err, ErrNoPendingSelection) {
			t.Errorf("expected ErrNoPendingSelection, got %v", err)
		}
	})

	t.Run("begin selection twice is rejected", func(t *testing.T) {
		t.Parallel()

		o := New(&fakeEngine{ready: true}, happySteps(&countingPersist{}))

		if err := o.BeginSelection(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := o.BeginSelection(); !errors.Is(err, ErrCaptureInProgress) {
			t.Errorf("expected ErrCaptureInProgress, got %v", err)
		}
	})
}

// TestRun tests trigger consumption.
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("each trigger starts a full-screen capture", func(t *testing.T) {
		t.Parallel()

		persist := &countingPersist{}
		o := New(&fakeEngine{ready: true}, happySteps(persist))

		triggers := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- o.Run(context.Background(), triggers)
		}()

		triggers <- struct{}{}
		triggers <- struct{}{}
		close(triggers)

		if err := <-done; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if persist.Count() != 2 {
			t.Errorf("expected 2 persisted results, got %d", persist.Count())
		}
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		o := New(&fakeEngine{ready: true}, happySteps(&countingPersist{}))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- o.Run(ctx, make(chan struct{}))
		}()

		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after cancellation")
		}
	})
}

// TestFailureMessage tests user-facing failure classification.
func TestFailureMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "capture failure mentions the display",
			err:  fmt.Errorf("step capture: %w", capture.ErrNoDisplay),
			want: "Screen capture failed. Check that a display is available and screen recording is permitted.",
		},
		{
			name: "recognition failure suggests retry",
			err:  fmt.Errorf("step recognize: %w", ocr.ErrRecognitionFailed),
			want: "Text recognition failed. Try capturing again.",
		},
		{
			name: "storage failure mentions disk space",
			err:  fmt.Errorf("step persist: %w", history.ErrHistoryWriteFailed),
			want: "Saving the result failed. Check disk space and history database permissions.",
		},
		{
			name: "engine not ready mentions spin-up",
			err:  ocr.ErrEngineNotReady,
			want: "Text recognition is not available yet. Wait for the OCR engine to finish starting.",
		},
		{
			name: "unknown failure has a generic message",
			err:  errors.New("boom"),
			want: "Capture failed. Try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FailureMessage(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestStateString tests state names.
func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateAwaitingRegionSelection, "awaiting_region_selection"},
		{StateCapturing, "capturing"},
		{StateRecognizing, "recognizing"},
		{StatePersisting, "persisting"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d): expected %q, got %q", tt.state, tt.want, got)
		}
	}
}
