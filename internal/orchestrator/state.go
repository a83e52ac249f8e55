package orchestrator

import "github.com/instanttext/instanttext/internal/model"

// State represents the orchestrator's position in the capture cycle.
// Failures are not a standing state: a failed attempt records a
// human-readable message in the snapshot and returns to StateIdle.
type State int

// Orchestrator states. Transitions run strictly forward through the
// capture cycle and always end back at StateIdle.
const (
	// StateIdle means no capture is in flight; RequestCapture is accepted.
	StateIdle State = iota

	// StateAwaitingRegionSelection means a trigger fired without a region
	// and the orchestrator is waiting for one (or for cancellation).
	StateAwaitingRegionSelection

	// StateCapturing means the screen is being grabbed.
	StateCapturing

	// StateRecognizing means the captured image is being read by the
	// OCR engine.
	StateRecognizing

	// StatePersisting means the result is being written to history.
	StatePersisting
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingRegionSelection:
		return "awaiting_region_selection"
	case StateCapturing:
		return "capturing"
	case StateRecognizing:
		return "recognizing"
	case StatePersisting:
		return "persisting"
	default:
		return "unknown"
	}
}

// Snapshot is the observable application state published to subscribers
// after every transition.
type Snapshot struct {
	// State is the orchestrator's current position in the capture cycle.
	State State

	// LastResult is the most recent finalized result, nil before the
	// first successful capture.
	LastResult *model.Result

	// OCRReady reports whether the engine accepts recognitions.
	OCRReady bool

	// InitError carries the engine's recorded initialization failure
	// message, empty when none.
	InitError string

	// FailureMessage is the human-readable description of the most
	// recent failed attempt, empty after a success.
	FailureMessage string
}
