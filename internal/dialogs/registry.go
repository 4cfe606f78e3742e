// Package dialogs keeps at most one live window per logical dialog name.
package dialogs

import (
	"fmt"
	"sort"
	"sync"
)

// Dialog is what the registry needs from a modeless window. The registry
// never sees concrete window types.
type Dialog interface {
	// Raise clears any minimized or maximized state, activates the window
	// and stacks it above the others.
	Raise()
	// CanClose lets the dialog veto shutdown while it holds unsaved state.
	CanClose() bool
	// SetForceClose makes the dialog skip its own veto while tearing down.
	SetForceClose(force bool)
	Close()
}

// Factory builds a new instance of a dialog from the arguments given to Open.
type Factory func(args ...any) Dialog

type entry struct {
	name     string
	factory  Factory
	instance Dialog
}

type Registry struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*entry
}

// New registers every dialog name up front. Open and Close only accept
// these names.
func New(factories map[string]Factory) *Registry {
	r := &Registry{entries: make(map[string]*entry, len(factories))}
	for name, factory := range factories {
		r.order = append(r.order, name)
		r.entries[name] = &entry{name: name, factory: factory}
	}
	sort.Strings(r.order)
	return r
}

func (r *Registry) lookup(name string) *entry {
	e, ok := r.entries[name]
	if !ok {
		panic(fmt.Sprintf("dialogs: %q is not a registered dialog", name))
	}
	return e
}

// Open returns the live instance of name, raised to the front, or builds a
// new one from args when none is open. Like the windows it manages, Open
// belongs on the UI goroutine.
func (r *Registry) Open(name string, args ...any) Dialog {
	r.mu.Lock()
	e := r.lookup(name)
	if live := e.instance; live != nil {
		r.mu.Unlock()
		live.Raise()
		return live
	}
	factory := e.factory
	r.mu.Unlock()

	created := factory(args...)

	r.mu.Lock()
	e.instance = created
	r.mu.Unlock()
	return created
}

// Close forgets the live instance of name. Closing a closed name does nothing.
func (r *Registry) Close(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookup(name).instance = nil
}

// CloseAll asks every live dialog, in name order, whether it may close.
// The first refusal stops the walk and returns false; dialogs closed
// earlier in the same call stay closed.
func (r *Registry) CloseAll() bool {
	for _, name := range r.Names() {
		r.mu.Lock()
		live := r.entries[name].instance
		r.mu.Unlock()

		if live == nil {
			continue
		}
		if !live.CanClose() {
			return false
		}
		live.SetForceClose(true)
		live.Close()
		r.CloseIf(name, live)
	}
	return true
}

// CloseIf forgets name only while it still points at d. Window close hooks
// use it: a hook that fires after the slot was refilled leaves the newer
// instance alone.
func (r *Registry) CloseIf(name string, d Dialog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e := r.lookup(name); e.instance == d {
		e.instance = nil
	}
}

func (r *Registry) IsOpen(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(name).instance != nil
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}
