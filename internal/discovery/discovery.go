// Package discovery fills a registry with the built-in commands and every
// command manifest installed next to the host.
package discovery

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
	"github.com/cristianoliveira/repokit/internal/loader"
	"github.com/cristianoliveira/repokit/internal/logging"
	"github.com/cristianoliveira/repokit/internal/pathresolve"
	"github.com/cristianoliveira/repokit/internal/registry"
)

// Error is a fatal discovery failure. Path names the module directory or
// manifest involved, or registry.SourceBuiltin.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("discovery failed at %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures one discovery pass.
type Options struct {
	// Builtins are registered first, in order, with source "builtin".
	Builtins []command.Descriptor
	// HostPath is the running executable. Empty means pathresolve.HostPath().
	HostPath string
	// WorkDir is the invocation's working directory.
	WorkDir string
	// ModuleDir overrides path resolution when set.
	ModuleDir string
	// Loader imports manifests. Nil means loader.New(WorkDir).
	Loader *loader.Loader
}

// Discover registers the built-ins and then every manifest command, one
// manifest at a time, and freezes the registry. The first failure stops
// discovery; nothing is retried.
func Discover(ctx context.Context, reg *registry.Registry, opts Options) error {
	for _, d := range opts.Builtins {
		if err := reg.Register(d, registry.SourceBuiltin); err != nil {
			return &Error{Path: registry.SourceBuiltin, Err: err}
		}
	}

	dir := opts.ModuleDir
	if dir == "" {
		host := opts.HostPath
		if host == "" {
			host = pathresolve.HostPath()
		}
		dir = pathresolve.ModuleDir(host, opts.WorkDir)
	}
	l := opts.Loader
	if l == nil {
		l = loader.New(opts.WorkDir)
	}

	candidates, err := loader.Candidates(dir)
	if err != nil {
		return &Error{Path: dir, Err: err}
	}
	colors.StructuredDebug("discovery", "scan", "ok", nil, map[string]any{
		"module_dir": dir,
		"candidates": len(candidates),
	})

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return &Error{Path: path, Err: err}
		}
		var loaded []command.Descriptor
		if err := l.Load(ctx, path, &loaded); err != nil {
			return &Error{Path: path, Err: err}
		}
		for _, d := range loaded {
			if err := reg.Register(d, path); err != nil {
				return &Error{Path: path, Err: err}
			}
		}
		logging.Debug("module loaded", "path", path, "commands", len(loaded))
	}

	reg.Freeze()
	return nil
}
