// Package orchestrator implements the capture state machine. It owns
// the single-flight policy (at most one capture pipeline in flight),
// the region-selection wait, and the observable application state the
// presentation layer consumes.
package orchestrator
