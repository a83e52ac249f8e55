package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values mirror the behavior of the original InstantText desktop app
// where applicable.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "instanttext"

	// DefaultLanguage is the Tesseract language code used for recognition.
	// The corresponding traineddata must be installed on the system.
	DefaultLanguage = "eng"

	// DefaultCaptureTimeout bounds a single screen capture call. Capturing
	// a display is normally instantaneous; ten seconds is generous enough
	// to cover slow remote desktops while still failing a wedged display
	// connection.
	DefaultCaptureTimeout = 10 * time.Second

	// DefaultRecognizeTimeout bounds a single recognition call. Tesseract
	// on a full 4K screenshot can take several seconds; thirty seconds is
	// a safe upper bound before the attempt is abandoned.
	DefaultRecognizeTimeout = 30 * time.Second

	// SettingsFileName is the user settings file stored under the XDG
	// config directory.
	SettingsFileName = "settings.yaml"

	// HistoryDBName is the SQLite database file stored under the XDG data
	// directory.
	HistoryDBName = "instanttext.db"
)

// Config holds runtime configuration assembled from CLI flags.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// SettingsPath is the path to the user settings file.
	// Empty means the default location under the XDG config directory.
	SettingsPath string

	// DataDir is the directory holding the history database and, by
	// default, saved screenshots. Empty means the XDG data directory.
	DataDir string

	// Language is the Tesseract language code for recognition.
	Language string

	// CaptureTimeout bounds each screen capture call.
	// Zero disables the bound.
	CaptureTimeout time.Duration

	// RecognizeTimeout bounds each recognition call.
	// Zero disables the bound.
	RecognizeTimeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (paths, timeouts).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		SettingsPath:     DefaultSettingsPath(),
		DataDir:          XDGDataDir(),
		Language:         DefaultLanguage,
		CaptureTimeout:   DefaultCaptureTimeout,
		RecognizeTimeout: DefaultRecognizeTimeout,
	}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Language == "" {
		return ErrNoLanguage
	}
	if c.CaptureTimeout < 0 {
		return ErrInvalidCaptureTimeout
	}
	if c.RecognizeTimeout < 0 {
		return ErrInvalidRecognizeTimeout
	}
	if c.DataDir == "" {
		return ErrNoDataDir
	}
	return nil
}

// XDGDataDir returns the XDG data directory for InstantText.
// On Linux: ~/.local/share/instanttext
// On macOS: ~/Library/Application Support/instanttext
// On Windows: %LOCALAPPDATA%\instanttext
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for InstantText.
// On Linux: ~/.config/instanttext
// On macOS: ~/Library/Application Support/instanttext
// On Windows: %APPDATA%\instanttext
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultSettingsPath returns the default location of the user settings file.
func DefaultSettingsPath() string {
	return filepath.Join(XDGConfigDir(), SettingsFileName)
}

// DefaultScreenshotsDir returns the default directory for saved screenshots.
func DefaultScreenshotsDir() string {
	return filepath.Join(XDGDataDir(), "screenshots")
}
