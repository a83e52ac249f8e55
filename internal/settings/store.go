package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/instanttext/instanttext/internal/config"
)

// Persister is the durable backing of the settings store. It reads and
// writes the settings document as opaque bytes so the Store stays
// testable without touching the filesystem.
type Persister interface {
	// Load returns the persisted settings document, or an error wrapping
	// ErrSettingsNotFound when none has been saved yet.
	Load() ([]byte, error)

	// Save durably replaces the persisted settings document.
	Save(data []byte) error
}

// FilePersister persists the settings document to a single YAML file.
type FilePersister struct {
	// path is the settings file location.
	path string
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// Load implements Persister.
func (p *FilePersister) Load() ([]byte, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, p.path)
		}
		return nil, err
	}
	return data, nil
}

// Save implements Persister. The document is written to a temporary file
// and renamed into place so a crash mid-write never corrupts the settings.
func (p *FilePersister) Save(data []byte) error {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close settings file: %w", err)
	}

	if err := os.Rename(tmpPath, p.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

// Change describes one successful settings replacement.
type Change struct {
	// Old and New are the snapshots before and after the swap.
	Old Settings
	New Settings
}

// HotkeyChanged reports whether the capture shortcut changed, which is
// what the registrar re-bind path cares about.
func (c Change) HotkeyChanged() bool {
	return c.Old.Hotkey != c.New.Hotkey
}

// Store holds the single live Settings snapshot.
//
// Design decision: Set persists before swapping. If persistence fails the
// previous snapshot stays active and the caller gets
// ErrSettingsPersistFailed; settings are never half-applied. Reads take a
// read lock and copy the value, so a reader can never observe a
// partially written snapshot.
type Store struct {
	// mu guards current.
	mu sync.RWMutex

	// current is the live snapshot.
	current Settings

	// persister is the durable backing.
	persister Persister

	// changes receives one Change per successful Set.
	changes chan Change

	// logger is used for structured logging.
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets a custom logger for the store.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store, loading persisted settings from the
// persister. When nothing has been persisted yet, defaults are used. A
// corrupted or invalid settings document is an error rather than a silent
// fallback: overwriting user settings with defaults would destroy them.
func NewStore(persister Persister, opts ...StoreOption) (*Store, error) {
	s := &Store{
		persister: persister,
		changes:   make(chan Change, 8),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	loaded, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current = loaded

	return s, nil
}

// load reads and validates the persisted settings document.
func (s *Store) load() (Settings, error) {
	data, err := s.persister.Load()
	if err != nil {
		if isNotFound(err) {
			s.logger.Debug("no persisted settings, using defaults")
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	// A hand-edited file may omit the screenshots directory; fall back
	// to the default location rather than rejecting the document.
	if loaded.ScreenshotsDir == "" {
		loaded.ScreenshotsDir = config.DefaultScreenshotsDir()
	}
	if err := loaded.Validate(); err != nil {
		return Settings{}, fmt.Errorf("persisted settings invalid: %w", err)
	}
	return loaded, nil
}

// Get returns the current settings snapshot.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set validates newSettings, persists them durably, then atomically swaps
// the in-memory snapshot. On persistence failure the previous snapshot
// remains active and ErrSettingsPersistFailed is returned.
func (s *Store) Set(newSettings Settings) error {
	if err := newSettings.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(newSettings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSettingsPersistFailed, err)
	}
	if err := s.persister.Save(data); err != nil {
		return fmt.Errorf("%w: %w", ErrSettingsPersistFailed, err)
	}

	s.mu.Lock()
	old := s.current
	s.current = newSettings
	s.mu.Unlock()

	change := Change{Old: old, New: newSettings}
	select {
	case s.changes <- change:
	default:
		s.logger.Warn("settings change notification dropped, queue full")
	}

	s.logger.Info("settings updated", "hotkey_changed", change.HotkeyChanged())
	return nil
}

// Changes returns the channel receiving one Change per successful Set.
// The hotkey registrar consumes it to re-bind when the shortcut changes.
func (s *Store) Changes() <-chan Change {
	return s.changes
}

// isNotFound reports whether err indicates missing persisted settings.
func isNotFound(err error) bool {
	return err != nil && (errors.Is(err, ErrSettingsNotFound) || os.IsNotExist(err))
}
