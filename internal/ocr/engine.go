package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
)

// State represents the engine lifecycle state.
type State int

// Engine lifecycle states. At most one engine per handle is ever
// initializing or ready at a time.
const (
	// StateUninitialized is the initial state before any Initialize call.
	StateUninitialized State = iota

	// StateInitializing means an initialization is in flight.
	StateInitializing

	// StateReady means the engine accepts Recognize calls.
	StateReady

	// StateFailed means the last initialization failed. A new Initialize
	// call retries.
	StateFailed

	// StateTerminated means resources have been released. Terminal.
	StateTerminated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Recognition is the engine's output for one image.
type Recognition struct {
	// Text is the recognized text, whitespace-trimmed and NFC-normalized.
	Text string

	// Confidence is the engine's mean word confidence in [0, 100].
	// Zero when the engine reports no confidence data.
	Confidence float64
}

// Backend is the opaque recognition capability the Engine manages.
// Implementations must tolerate Close being called without a prior Init.
type Backend interface {
	// Init prepares the backend for recognition. Called at most once per
	// successful lifecycle; a failed Init may be called again.
	Init(ctx context.Context) error

	// Recognize extracts text from PNG-encoded image bytes. Implementations
	// may serialize concurrent calls internally.
	Recognize(ctx context.Context, imageBytes []byte) (Recognition, error)

	// Close releases backend resources.
	Close() error
}

// Engine owns one recognition backend and guards it with an explicit
// lifecycle state machine. All callers share a single Engine.
type Engine struct {
	// mu guards state and initErr. Recognize holds the read side for the
	// duration of a recognition so Terminate cannot tear the backend down
	// underneath an in-flight call.
	mu sync.RWMutex

	// state is the current lifecycle state.
	state State

	// initErr records the diagnostic message from the last failed
	// initialization. Empty unless state is StateFailed.
	initErr string

	// backend is the managed recognition capability.
	backend Backend

	// flight coalesces concurrent Initialize calls into one spin-up.
	flight singleflight.Group

	// logger is used for structured logging.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine managing the given backend.
// The engine starts in StateUninitialized; call Initialize before Recognize.
func New(backend Backend, opts ...Option) *Engine {
	e := &Engine{
		state:   StateUninitialized,
		backend: backend,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Initialize transitions the engine to Ready, spinning up the backend.
// It is idempotent: calling it on a ready engine returns nil immediately.
// Concurrent calls while initialization is in flight await the same
// spin-up rather than starting a second one. After a failure the engine is
// left in StateFailed with a diagnostic; a fresh Initialize call retries.
func (e *Engine) Initialize(ctx context.Context) error {
	_, err, shared := e.flight.Do("initialize", func() (any, error) {
		return nil, e.doInitialize(ctx)
	})
	if shared {
		e.logger.Debug("initialize call coalesced with in-flight initialization")
	}
	return err
}

// doInitialize performs one initialization attempt.
func (e *Engine) doInitialize(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateReady:
		e.mu.Unlock()
		return nil
	case StateTerminated:
		e.mu.Unlock()
		return ErrEngineTerminated
	default:
		e.state = StateInitializing
		e.initErr = ""
	}
	e.mu.Unlock()

	e.logger.Info("initializing ocr engine")
	err := e.backend.Init(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateTerminated {
		// Terminate won the race while the backend was spinning up.
		// Release whatever Init just allocated.
		if closeErr := e.backend.Close(); closeErr != nil {
			e.logger.Warn("closing backend after terminate during init", "error", closeErr)
		}
		return ErrEngineTerminated
	}

	if err != nil {
		e.state = StateFailed
		e.initErr = err.Error()
		e.logger.Error("ocr engine initialization failed", "error", err)
		return fmt.Errorf("%w: %w", ErrEngineInitFailed, err)
	}

	e.state = StateReady
	e.logger.Info("ocr engine ready")
	return nil
}

// Recognize extracts text from PNG-encoded image bytes.
// It is valid only in StateReady and fails with ErrEngineNotReady in any
// other state, including after Terminate. Concurrent Recognize calls are
// permitted; the backend serializes or parallelizes them internally.
func (e *Engine) Recognize(ctx context.Context, imageBytes []byte) (Recognition, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state != StateReady {
		return Recognition{}, fmt.Errorf("%w: engine is %s", ErrEngineNotReady, e.state)
	}

	rec, err := e.backend.Recognize(ctx, imageBytes)
	if err != nil {
		return Recognition{}, fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
	}

	rec.Text = norm.NFC.String(strings.TrimSpace(rec.Text))
	if rec.Confidence < 0 {
		rec.Confidence = 0
	}
	if rec.Confidence > 100 {
		rec.Confidence = 100
	}
	return rec, nil
}

// Terminate releases engine resources and transitions to StateTerminated.
// It blocks until in-flight recognitions have finished. Any subsequent
// Recognize fails with ErrEngineNotReady; the handle cannot be revived.
func (e *Engine) Terminate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateTerminated {
		return nil
	}

	prev := e.state
	e.state = StateTerminated
	e.initErr = ""
	e.logger.Info("terminating ocr engine", "previous_state", prev.String())

	if prev == StateInitializing {
		// The in-flight doInitialize observes StateTerminated and closes
		// the backend itself once Init returns.
		return nil
	}

	return e.backend.Close()
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Ready reports whether the engine accepts Recognize calls.
func (e *Engine) Ready() bool {
	return e.State() == StateReady
}

// InitError returns the diagnostic message recorded by the last failed
// initialization, or an empty string.
func (e *Engine) InitError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initErr
}
