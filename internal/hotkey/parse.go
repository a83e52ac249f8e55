package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Combo is a parsed key combination ready for system registration.
type Combo struct {
	// Mods are the modifier keys, in spec order.
	Mods []hotkey.Modifier

	// Key is the final non-modifier key.
	Key hotkey.Key
}

// keyNames maps spec tokens to hotkey keys. Letters, digits, function
// keys, and the common editing keys cover everything the settings UI
// offers.
var keyNames = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"enter":  hotkey.KeyReturn,
	"return": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
}

// modifierNames maps spec tokens to modifiers. Platform synonyms are all
// accepted so a settings file written on one OS still parses on another;
// modAlt and modSuper resolve per platform.
var modifierNames = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"shift":   hotkey.ModShift,
	"alt":     modAlt,
	"option":  modAlt,
	"super":   modSuper,
	"cmd":     modSuper,
	"win":     modSuper,
	"meta":    modSuper,
}

// Parse turns a spec string like "ctrl+shift+o" into a Combo.
// Specs are case-insensitive. At least one modifier is required: a global
// binding on a bare key would swallow ordinary typing system-wide.
func Parse(spec string) (Combo, error) {
	tokens := strings.Split(spec, "+")
	if len(tokens) < 2 {
		return Combo{}, fmt.Errorf("%w: %q needs at least one modifier and a key", ErrInvalidHotkeySpec, spec)
	}

	var combo Combo
	for i, token := range tokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			return Combo{}, fmt.Errorf("%w: %q has an empty token", ErrInvalidHotkeySpec, spec)
		}

		if i < len(tokens)-1 {
			mod, ok := modifierNames[token]
			if !ok {
				return Combo{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidHotkeySpec, token, spec)
			}
			combo.Mods = append(combo.Mods, mod)
			continue
		}

		key, ok := keyNames[token]
		if !ok {
			return Combo{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidHotkeySpec, token, spec)
		}
		combo.Key = key
	}

	return combo, nil
}
