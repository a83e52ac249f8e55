package settings

import "errors"

// Settings errors.
var (
	// ErrSettingsPersistFailed is returned by Store.Set when the durable
	// write fails. The in-memory snapshot is left untouched; the
	// previous settings remain active.
	ErrSettingsPersistFailed = errors.New("failed to persist settings")

	// ErrSettingsNotFound is returned by a Persister when no settings
	// have been saved yet. The store falls back to defaults.
	ErrSettingsNotFound = errors.New("settings file not found")

	// ErrNoScreenshotsDir is returned when screenshot saving is enabled
	// without a directory to save into.
	ErrNoScreenshotsDir = errors.New("screenshots directory required when screenshot saving is enabled")
)
