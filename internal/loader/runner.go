package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/cristianoliveira/repokit/internal/command"
)

const (
	// OptionEnvPrefix prefixes the environment variable of every option.
	OptionEnvPrefix = "REPOKIT_OPT_"
	// ModuleDirEnv names the directory of the manifest being run.
	ModuleDirEnv = "REPOKIT_MODULE_DIR"
)

// scriptRunner executes a manifest's run script in an embedded POSIX shell,
// so manifests behave the same with or without a system shell.
type scriptRunner struct {
	name      string
	file      *syntax.File
	dir       string
	moduleDir string
	loader    *Loader
}

func (r *scriptRunner) run(ctx context.Context, args command.Args) (int, error) {
	env := append(os.Environ(), ModuleDirEnv+"="+r.moduleDir)
	env = append(env, args.Env(OptionEnvPrefix)...)

	opts := []interp.RunnerOption{
		interp.Dir(r.workDir()),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(r.loader.Stdin, r.loader.Stdout, r.loader.Stderr),
	}
	// "--" keeps positionals such as "-v" from being read as shell options.
	if len(args.Positionals) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, args.Positionals...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return 1, fmt.Errorf("command %q: create interpreter: %w", r.name, err)
	}
	if err := runner.Run(ctx, r.file); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return 1, fmt.Errorf("command %q: %w", r.name, err)
	}
	return 0, nil
}

func (r *scriptRunner) workDir() string {
	base := r.loader.WorkDir
	if base == "" {
		base, _ = os.Getwd()
	}
	if r.dir == "" {
		return base
	}
	if filepath.IsAbs(r.dir) {
		return r.dir
	}
	return filepath.Join(base, r.dir)
}
