package hotkey

import (
	"log/slog"
	"sync"
)

// Binding is one active system-wide key binding.
type Binding interface {
	// Keydown delivers one value per key press.
	Keydown() <-chan struct{}

	// Unregister releases the binding.
	Unregister() error
}

// Binder claims key combinations with the operating system.
type Binder interface {
	// Bind registers a combination and returns the live binding.
	// It returns an error wrapping ErrHotkeyConflict when the
	// combination is already claimed elsewhere.
	Bind(combo Combo) (Binding, error)
}

// Registrar owns the single active global hotkey binding and forwards its
// key presses onto a trigger channel consumed by the orchestrator's event
// loop.
type Registrar struct {
	// mu guards current, currentSpec, and stopForward.
	mu sync.Mutex

	// binder claims combinations with the OS.
	binder Binder

	// current is the active binding, nil when nothing is registered.
	current Binding

	// currentSpec is the spec string of the active binding.
	currentSpec string

	// stopForward stops the forwarder goroutine of the current binding.
	stopForward chan struct{}

	// triggers receives one value per hotkey press. Presses arriving
	// while the channel is full are dropped; a capture is already being
	// triggered in that case.
	triggers chan struct{}

	// logger is used for structured logging.
	logger *slog.Logger
}

// RegistrarOption configures a Registrar.
type RegistrarOption func(*Registrar)

// WithRegistrarLogger sets a custom logger for the registrar.
func WithRegistrarLogger(logger *slog.Logger) RegistrarOption {
	return func(r *Registrar) {
		r.logger = logger
	}
}

// NewRegistrar creates a Registrar using the given binder.
// A nil binder selects the system binder backed by golang.design/x/hotkey.
func NewRegistrar(binder Binder, opts ...RegistrarOption) *Registrar {
	r := &Registrar{
		binder:   binder,
		triggers: make(chan struct{}, 8),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.binder == nil {
		r.binder = systemBinder{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Triggers returns the channel receiving one value per hotkey press.
func (r *Registrar) Triggers() <-chan struct{} {
	return r.triggers
}

// Current returns the spec string of the active binding, or "" when
// nothing is registered.
func (r *Registrar) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentSpec
}

// Register parses the spec and replaces the active binding with it.
// The previous binding is always released before the new one is claimed,
// so a stale shortcut never remains active after a settings change. If
// claiming the new combination fails, the previous binding is restored on
// a best-effort basis and the error is returned.
func (r *Registrar) Register(spec string) error {
	combo, err := Parse(spec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prevSpec := r.currentSpec
	r.unregisterLocked()

	binding, err := r.binder.Bind(combo)
	if err != nil {
		r.logger.Error("failed to bind hotkey", "hotkey", spec, "error", err)
		r.restoreLocked(prevSpec)
		return err
	}

	r.installLocked(spec, binding)
	r.logger.Info("registered global hotkey", "hotkey", spec)
	return nil
}

// Unregister releases the active binding, if any.
func (r *Registrar) Unregister() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregisterLocked()
}

// installLocked activates a binding and starts its forwarder.
// Caller must hold r.mu.
func (r *Registrar) installLocked(spec string, binding Binding) {
	stop := make(chan struct{})
	r.current = binding
	r.currentSpec = spec
	r.stopForward = stop

	go r.forward(binding, stop)
}

// unregisterLocked releases the current binding. Caller must hold r.mu.
func (r *Registrar) unregisterLocked() error {
	if r.current == nil {
		return nil
	}

	close(r.stopForward)
	err := r.current.Unregister()
	r.current = nil
	r.currentSpec = ""
	r.stopForward = nil
	return err
}

// restoreLocked re-binds the previous spec after a failed replacement.
// Caller must hold r.mu.
func (r *Registrar) restoreLocked(prevSpec string) {
	if prevSpec == "" {
		return
	}

	combo, err := Parse(prevSpec)
	if err != nil {
		return
	}
	binding, err := r.binder.Bind(combo)
	if err != nil {
		r.logger.Error("failed to restore previous hotkey", "hotkey", prevSpec, "error", err)
		return
	}
	r.installLocked(prevSpec, binding)
	r.logger.Warn("kept previous hotkey after failed change", "hotkey", prevSpec)
}

// forward relays key presses from one binding to the shared trigger
// channel until the binding is replaced or released.
func (r *Registrar) forward(binding Binding, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case _, ok := <-binding.Keydown():
			if !ok {
				return
			}
			// Re-check stop: a press racing the unregister must not fire
			// after the binding has been replaced.
			select {
			case <-stop:
				return
			default:
			}
			select {
			case r.triggers <- struct{}{}:
			default:
				r.logger.Debug("dropping hotkey press, trigger queue full")
			}
		}
	}
}
