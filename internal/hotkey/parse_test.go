package hotkey

import (
	"errors"
	"testing"

	"golang.design/x/hotkey"
)

// TestParse tests hotkey spec parsing.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parses valid specs", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			spec     string
			wantMods int
			wantKey  hotkey.Key
		}{
			{name: "default hotkey", spec: "ctrl+shift+o", wantMods: 2, wantKey: hotkey.KeyO},
			{name: "single modifier", spec: "ctrl+c", wantMods: 1, wantKey: hotkey.KeyC},
			{name: "uppercase", spec: "CTRL+SHIFT+O", wantMods: 2, wantKey: hotkey.KeyO},
			{name: "mixed case with spaces", spec: "Ctrl + Shift + o", wantMods: 2, wantKey: hotkey.KeyO},
			{name: "function key", spec: "alt+f4", wantMods: 1, wantKey: hotkey.KeyF4},
			{name: "digit", spec: "super+1", wantMods: 1, wantKey: hotkey.Key1},
			{name: "control synonym", spec: "control+space", wantMods: 1, wantKey: hotkey.KeySpace},
			{name: "three modifiers", spec: "ctrl+alt+shift+t", wantMods: 3, wantKey: hotkey.KeyT},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				combo, err := Parse(tt.spec)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(combo.Mods) != tt.wantMods {
					t.Errorf("expected %d modifiers, got %d", tt.wantMods, len(combo.Mods))
				}
				if combo.Key != tt.wantKey {
					t.Errorf("expected key %v, got %v", tt.wantKey, combo.Key)
				}
			})
		}
	})

	t.Run("rejects invalid specs", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			spec string
		}{
			{name: "empty", spec: ""},
			{name: "bare key", spec: "o"},
			{name: "unknown modifier", spec: "hyper+o"},
			{name: "unknown key", spec: "ctrl+unknownkey"},
			{name: "modifier as key", spec: "ctrl+shift"},
			{name: "trailing plus", spec: "ctrl+o+"},
			{name: "empty token", spec: "ctrl++o"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := Parse(tt.spec)
				if !errors.Is(err, ErrInvalidHotkeySpec) {
					t.Errorf("expected ErrInvalidHotkeySpec, got %v", err)
				}
			})
		}
	})
}
