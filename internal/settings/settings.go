package settings

import (
	"github.com/instanttext/instanttext/internal/config"
	"github.com/instanttext/instanttext/internal/hotkey"
)

// DefaultHotkey is the capture shortcut registered on first run.
const DefaultHotkey = "ctrl+shift+o"

// Settings is the user configuration consulted by the capture pipeline
// and the hotkey registrar. There is a single live instance, owned by the
// Store; mutate it only through Store.Set.
type Settings struct {
	// Hotkey is the global capture shortcut, e.g. "ctrl+shift+o".
	Hotkey string `yaml:"hotkey" json:"hotkey"`

	// AutoCopyToClipboard pushes each result's text to the system
	// clipboard as it is persisted.
	AutoCopyToClipboard bool `yaml:"auto_copy_to_clipboard" json:"auto_copy_to_clipboard"`

	// SaveScreenshots retains the captured image on disk alongside the
	// history entry.
	SaveScreenshots bool `yaml:"save_screenshots" json:"save_screenshots"`

	// ScreenshotsDir is where retained screenshots are written.
	ScreenshotsDir string `yaml:"screenshots_dir" json:"screenshots_dir"`

	// Autostart launches the resident process at login. Consumed by the
	// desktop integration layer, carried here so it round-trips through
	// the settings file.
	Autostart bool `yaml:"autostart" json:"autostart"`
}

// Default returns the settings used before the user has saved any.
// These mirror the original desktop app defaults.
func Default() Settings {
	return Settings{
		Hotkey:              DefaultHotkey,
		AutoCopyToClipboard: true,
		SaveScreenshots:     true,
		ScreenshotsDir:      config.DefaultScreenshotsDir(),
		Autostart:           false,
	}
}

// Validate checks the settings shape.
// It returns the first problem found.
func (s Settings) Validate() error {
	if _, err := hotkey.Parse(s.Hotkey); err != nil {
		return err
	}
	if s.SaveScreenshots && s.ScreenshotsDir == "" {
		return ErrNoScreenshotsDir
	}
	return nil
}
