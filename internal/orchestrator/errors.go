package orchestrator

import "errors"

var (
	// ErrCaptureInProgress is returned when a capture is requested while
	// the orchestrator is not Idle. This is a hard precondition, not a
	// queue: the caller retries after the in-flight attempt completes.
	ErrCaptureInProgress = errors.New("capture already in progress")

	// ErrNoPendingSelection is returned by CancelCapture and
	// ProvideRegion when no region selection is being awaited.
	ErrNoPendingSelection = errors.New("no pending region selection")
)
