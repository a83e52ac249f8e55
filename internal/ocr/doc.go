// Package ocr manages the lifecycle of a single long-lived text
// recognition engine.
//
// The Engine wraps a Backend (Tesseract via gosseract in production) behind
// an explicit state machine: Uninitialized -> Initializing -> Ready ->
// Failed -> Terminated. Keeping one engine instance alive across captures
// avoids paying the engine spin-up cost on every recognition.
//
// Design decision: The engine is an explicitly owned handle threaded
// through the orchestrator's constructor rather than a package-level
// singleton. Concurrent Initialize calls are coalesced with
// golang.org/x/sync/singleflight so only one spin-up ever runs, and
// recognition holds a read lock so teardown can never race an in-flight
// recognition.
package ocr
