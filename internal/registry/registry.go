// Package registry maps command names to descriptors for one invocation of
// the host. It is filled during discovery, frozen, and then only read.
package registry

import (
	"errors"
	"fmt"

	"github.com/cristianoliveira/repokit/internal/command"
)

// SourceBuiltin marks commands compiled into the host.
const SourceBuiltin = "builtin"

// ErrFrozen is returned by Register once discovery has finished.
var ErrFrozen = errors.New("registry is frozen")

// CollisionError reports a second descriptor claiming an existing name.
type CollisionError struct {
	Name           string
	Source         string
	ExistingSource string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("command %q from %s collides with the one from %s", e.Name, e.Source, e.ExistingSource)
}

type entry struct {
	desc   command.Descriptor
	source string
}

// Registry holds the commands available to the dispatcher.
type Registry struct {
	byName map[string]*entry
	order  []*entry
	frozen bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*entry)}
}

// Register adds d under its name. source records where it came from for
// diagnostics. A name that is already taken is rejected, never overwritten.
func (r *Registry) Register(d command.Descriptor, source string) error {
	if r.frozen {
		return ErrFrozen
	}
	if err := command.Validate(d); err != nil {
		return err
	}
	name := d.Name()
	if existing, ok := r.byName[name]; ok {
		return &CollisionError{Name: name, Source: source, ExistingSource: existing.source}
	}
	e := &entry{desc: d, source: source}
	r.byName[name] = e
	r.order = append(r.order, e)
	return nil
}

// Freeze ends registration.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// Lookup returns the runner registered under name.
func (r *Registry) Lookup(name string) (command.Runner, bool) {
	e, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return e.desc.Run, true
}

// Descriptor returns the descriptor registered under name.
func (r *Registry) Descriptor(name string) (command.Descriptor, bool) {
	e, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return e.desc, true
}

// Source returns where the command called name was registered from.
func (r *Registry) Source(name string) string {
	if e, ok := r.byName[name]; ok {
		return e.source
	}
	return ""
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []command.Descriptor {
	out := make([]command.Descriptor, len(r.order))
	for i, e := range r.order {
		out[i] = e.desc
	}
	return out
}

// Names returns every command name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	for i, e := range r.order {
		out[i] = e.desc.Name()
	}
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int { return len(r.order) }
