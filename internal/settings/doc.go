// Package settings owns the live user configuration.
//
// The Store holds a single Settings snapshot and replaces it atomically:
// Set validates, persists durably, and only then swaps the in-memory
// value, so a failed write never leaves half-applied settings behind and
// readers always see a fully written snapshot. The pipeline reads a fresh
// snapshot at the moment each capture persists, which is what makes a
// settings change take effect on the very next result.
package settings
