// Package command defines the descriptor every repokit sub-command satisfies,
// whether it is compiled into the host or loaded from a module manifest.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Descriptor is the contract a sub-command fulfils.
type Descriptor interface {
	// Name is the unique lookup key and default invocation token.
	Name() string
	// Command is the invocation pattern, e.g. "docs [root]". Empty means Name.
	Command() string
	// Description is the one-line summary shown in help.
	Description() string
	// Options declares the flags the command accepts.
	Options() []Option
	// Run executes the command and returns its exit status.
	Run(ctx context.Context, args Args) (int, error)
}

// Runner is the executable half of a descriptor.
type Runner func(ctx context.Context, args Args) (int, error)

// Spec is a Descriptor assembled from plain values.
type Spec struct {
	CommandName string
	Pattern     string
	Summary     string
	Flags       []Option
	RunFunc     Runner
}

var _ Descriptor = (*Spec)(nil)

func (s *Spec) Name() string        { return s.CommandName }
func (s *Spec) Command() string     { return s.Pattern }
func (s *Spec) Description() string { return s.Summary }
func (s *Spec) Options() []Option   { return s.Flags }

// Run calls RunFunc.
func (s *Spec) Run(ctx context.Context, args Args) (int, error) {
	if s.RunFunc == nil {
		return 1, fmt.Errorf("command %q has no runner", s.CommandName)
	}
	return s.RunFunc(ctx, args)
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid command descriptor")

// Validate checks that d can be registered and dispatched.
func Validate(d Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalid)
	}
	name := d.Name()
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 || strings.HasPrefix(name, "-") {
		return fmt.Errorf("%w: name %q must be a single word not starting with '-'", ErrInvalid, name)
	}
	if name == "help" {
		return fmt.Errorf("%w: name %q is reserved for the help command", ErrInvalid, name)
	}
	if s, ok := d.(*Spec); ok && s.RunFunc == nil {
		return fmt.Errorf("%w: command %q has no runner", ErrInvalid, name)
	}
	if err := validateOptions(d.Options()); err != nil {
		return fmt.Errorf("%w: command %q: %v", ErrInvalid, name, err)
	}
	return nil
}

// Use returns the invocation pattern used for parsing and help. A pattern
// that does not start with the command's name is treated as its positional
// grammar.
func Use(d Descriptor) string {
	pattern := strings.TrimSpace(d.Command())
	if pattern == "" {
		return d.Name()
	}
	if fields := strings.Fields(pattern); fields[0] == d.Name() {
		return pattern
	}
	return d.Name() + " " + pattern
}
