package ocr

import "errors"

// Engine lifecycle errors.
// Callers match these with errors.Is to distinguish a retryable
// initialization failure from a handle that can no longer be used.
var (
	// ErrEngineNotReady is returned by Recognize when the engine is not
	// in the Ready state. Callers should Initialize first, or report the
	// recorded initialization error.
	ErrEngineNotReady = errors.New("ocr engine not ready")

	// ErrEngineInitFailed is returned when engine initialization fails.
	// The failure is terminal for that attempt but retryable: a fresh
	// Initialize call starts a new spin-up.
	ErrEngineInitFailed = errors.New("ocr engine initialization failed")

	// ErrEngineTerminated is returned when the engine has been
	// terminated. A terminated engine never becomes usable again; create
	// a new Engine instead.
	ErrEngineTerminated = errors.New("ocr engine terminated")

	// ErrRecognitionFailed is returned when the backend fails to extract
	// text from an image. The engine stays Ready; the caller may retry
	// with a new capture.
	ErrRecognitionFailed = errors.New("text recognition failed")
)
