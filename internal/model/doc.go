// Package model defines the core data structures used throughout InstantText.
//
// This package contains the following main types:
//   - Result: The persisted record of one completed capture-and-recognize cycle
//   - CaptureRegion: An optional screen rectangle selected for capture
//   - Attempt: The mutable working state of one pipeline run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (capture, pipeline, history, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for history export and
// database storage.
package model
