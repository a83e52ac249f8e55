// Package pipeline implements the capture-to-text sequence as ordered
// steps: capture the screen, recognize text, persist the result. Steps
// share an Attempt that accumulates their output, and the pipeline
// stops at the first failing step so later steps never see partial
// state.
package pipeline
