package history

import "errors"

var (
	// ErrHistoryWriteFailed is returned when a result could not be
	// appended to the history database.
	ErrHistoryWriteFailed = errors.New("failed to write result to history")

	// ErrHistoryNotFound is returned when the history database does not
	// exist and creation was not requested.
	ErrHistoryNotFound = errors.New("history database not found")
)
