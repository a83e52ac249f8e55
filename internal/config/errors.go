package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoLanguage is returned when the OCR language code is empty.
	// Tesseract needs a language to select traineddata.
	ErrNoLanguage = errors.New("no OCR language specified: use --lang (e.g. \"eng\")")

	// ErrInvalidCaptureTimeout is returned when the capture timeout is
	// negative. Use 0 to disable the bound.
	ErrInvalidCaptureTimeout = errors.New("invalid capture timeout: must be non-negative")

	// ErrInvalidRecognizeTimeout is returned when the recognition timeout
	// is negative. Use 0 to disable the bound.
	ErrInvalidRecognizeTimeout = errors.New("invalid recognize timeout: must be non-negative")

	// ErrNoDataDir is returned when the data directory is empty.
	// History persistence needs somewhere to put the database.
	ErrNoDataDir = errors.New("no data directory specified")
)
