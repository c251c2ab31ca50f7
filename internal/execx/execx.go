// Package execx starts external programs on behalf of commands and reports
// their exit status.
package execx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/fsutil"
	"github.com/cristianoliveira/repokit/internal/logging"
	"github.com/cristianoliveira/repokit/internal/pathresolve"
)

// Cmd describes one child process. Nil streams inherit the host's.
type Cmd struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for display.
func (c Cmd) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, p := range append([]string{c.Name}, c.Args...) {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			p = fmt.Sprintf("%q", p)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// Run starts c and waits for it. The child's exit status is returned as the
// int; an error means the child could not be started or waited on.
func Run(ctx context.Context, c Cmd) (int, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdin = orReader(c.Stdin, os.Stdin)
	cmd.Stdout = orWriter(c.Stdout, os.Stdout)
	cmd.Stderr = orWriter(c.Stderr, os.Stderr)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal.
			code = 1
		}
		logging.Debug("child exited", "cmd", c.Name, "code", code, "duration", duration.String())
		return code, nil
	default:
		logging.Error("child failed to start", "cmd", c.Name, "error", err.Error())
		return 1, fmt.Errorf("run %s: %w", c.Name, err)
	}

	logging.Debug("child exited", "cmd", c.Name, "code", 0, "duration", duration.String())
	colors.StructuredDebug("execx", "run", "ok", nil, map[string]any{
		"cmd":         c.Name,
		"duration_ms": duration.Milliseconds(),
	})
	return 0, nil
}

// LookTool finds an executable, preferring a project-local install under
// workDir's bin directory over PATH. A name that is not found anywhere is
// returned unchanged so the start failure names it.
func LookTool(name, workDir string) string {
	if workDir != "" && !strings.ContainsRune(name, filepath.Separator) {
		local := filepath.Join(workDir, pathresolve.BinDir, name)
		if runtime.GOOS == "windows" && fsutil.FileExists(local+pathresolve.WrapperSuffix) {
			return local + pathresolve.WrapperSuffix
		}
		if fsutil.FileExists(local) {
			return local
		}
	}
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}

func orReader(r, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func orWriter(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
