// Command repokit is the task runner for TypeScript repositories. It serves
// a fixed set of built-in commands plus every command manifest installed
// alongside it.
package main

import (
	"context"
	"io"
	"os"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/config"
	"github.com/cristianoliveira/repokit/internal/discovery"
	"github.com/cristianoliveira/repokit/internal/dispatch"
	"github.com/cristianoliveira/repokit/internal/history"
	"github.com/cristianoliveira/repokit/internal/loader"
	"github.com/cristianoliveira/repokit/internal/logging"
	"github.com/cristianoliveira/repokit/internal/pathresolve"
	"github.com/cristianoliveira/repokit/internal/registry"
	"github.com/cristianoliveira/repokit/internal/version"
)

const summary = "Repository tasks for TypeScript projects."

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// host carries what the built-in commands need from the running process.
type host struct {
	cfg      *config.Config
	workDir  string
	stdout   io.Writer
	stderr   io.Writer
	registry func() *registry.Registry
}

func run(args []string, stdout, stderr io.Writer) int {
	workDir, err := os.Getwd()
	if err != nil {
		colors.ErrorTo(stderr, "cannot determine working directory:", err.Error())
		return 1
	}

	cfg := config.Load(workDir)
	if cfg.Debug {
		colors.SetDebug(true)
	}

	commandName := pathresolve.HostName
	if len(args) > 0 {
		commandName = args[0]
	}
	if err := logging.InitGlobal(logging.FromConfig(cfg, commandName)); err != nil {
		colors.WarningTo(stderr, "file logging disabled:", err.Error())
	}
	defer func() { _ = logging.ShutdownGlobal() }()

	var recorder dispatch.Recorder
	if cfg.HistoryEnabled {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			colors.WarningTo(stderr, "history disabled:", err.Error())
		} else {
			defer store.Close()
			recorder = store
		}
	}

	var d *dispatch.Dispatcher
	h := &host{
		cfg:      cfg,
		workDir:  workDir,
		stdout:   stdout,
		stderr:   stderr,
		registry: func() *registry.Registry { return d.Registry() },
	}
	l := &loader.Loader{WorkDir: workDir, Stdin: os.Stdin, Stdout: stdout, Stderr: stderr}

	d = dispatch.New(dispatch.Options{
		Name:     pathresolve.HostName,
		Version:  version.String(),
		Summary:  summary,
		WorkDir:  workDir,
		Stdout:   stdout,
		Stderr:   stderr,
		Recorder: recorder,
		Discover: func(ctx context.Context, reg *registry.Registry) error {
			return discovery.Discover(ctx, reg, discovery.Options{
				Builtins: h.builtins(),
				WorkDir:  workDir,
				Loader:   l,
			})
		},
	})

	colors.StructuredInfo("startup", "main", "started", nil, map[string]any{"command": commandName})
	code := d.Run(context.Background(), args)
	colors.StructuredInfo("startup", "main", "completed", nil, map[string]any{"command": commandName, "code": code})
	return code
}
