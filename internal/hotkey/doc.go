// Package hotkey binds a global keyboard shortcut to the "start capture"
// trigger.
//
// The Registrar owns at most one active system-wide binding at a time.
// Re-registration replaces the previous binding rather than accumulating:
// the old combination is released before the new one is claimed, so a
// settings change can never leave a stale shortcut firing captures.
//
// Parsing and binding are split: Parse turns a spec string such as
// "ctrl+shift+o" into a Combo, and a Binder claims the combination with
// the operating system (golang.design/x/hotkey in production, a fake in
// tests). The Registrar itself holds no capture state; it only forwards
// key-down events onto its trigger channel.
package hotkey
