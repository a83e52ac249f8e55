package hotkey

import (
	"fmt"

	"golang.design/x/hotkey"
)

// systemBinder claims combinations with the OS via golang.design/x/hotkey.
type systemBinder struct{}

// NewSystemBinder returns the Binder backed by the operating system's
// global hotkey facility.
func NewSystemBinder() Binder {
	return systemBinder{}
}

// Bind implements Binder.
func (systemBinder) Bind(combo Combo) (Binding, error) {
	hk := hotkey.New(combo.Mods, combo.Key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHotkeyConflict, err)
	}

	b := &systemBinding{
		hk:      hk,
		keydown: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go b.relay()
	return b, nil
}

// systemBinding adapts a registered hotkey to the Binding interface.
type systemBinding struct {
	hk      *hotkey.Hotkey
	keydown chan struct{}
	done    chan struct{}
}

// relay converts library key-down events into Binding events.
func (b *systemBinding) relay() {
	for {
		select {
		case <-b.done:
			return
		case <-b.hk.Keydown():
			select {
			case b.keydown <- struct{}{}:
			case <-b.done:
				return
			}
		}
	}
}

// Keydown implements Binding.
func (b *systemBinding) Keydown() <-chan struct{} {
	return b.keydown
}

// Unregister implements Binding.
func (b *systemBinding) Unregister() error {
	close(b.done)
	return b.hk.Unregister()
}
