// Package config holds application-wide constants, defaults, and the
// runtime configuration assembled from CLI flags.
//
// Design decision: Config is populated from CLI flags and passed through
// the application via dependency injection rather than global state. User
// preferences that change at runtime (hotkey, auto-copy, screenshot
// retention) live in the settings package instead; config covers only what
// is fixed for the lifetime of a process.
package config
