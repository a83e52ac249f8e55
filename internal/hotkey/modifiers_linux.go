//go:build linux

package hotkey

import "golang.design/x/hotkey"

// X11 modifier aliases: Mod1 is Alt, Mod4 is Super on stock keymaps.
const (
	modAlt   = hotkey.Mod1
	modSuper = hotkey.Mod4
)
