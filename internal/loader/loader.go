// Package loader imports command manifests found next to the host binary.
//
// A manifest is a TOML file named repokit-<anything>.toml whose top-level
// "command" key holds one table or an array of tables, each describing a
// sub-command and the shell script that implements it.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
	"github.com/cristianoliveira/repokit/internal/fsutil"
	"github.com/cristianoliveira/repokit/internal/logging"
	"github.com/cristianoliveira/repokit/internal/wrapper"
)

const (
	// ModulePrefix starts every manifest file name.
	ModulePrefix = "repokit-"
	// ModuleSuffix ends every manifest file name.
	ModuleSuffix = ".toml"
)

// ImportError reports a manifest that could not be read or parsed.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// IsCandidate reports whether name follows the manifest naming convention.
func IsCandidate(name string) bool {
	return strings.HasPrefix(name, ModulePrefix) && strings.HasSuffix(name, ModuleSuffix)
}

// Candidates returns the manifest paths in dir, sorted by file name.
func Candidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list modules in %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsCandidate(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Loader turns manifests into command descriptors.
type Loader struct {
	// WorkDir anchors wrapper stubs and relative script directories.
	WorkDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Loader rooted at workDir using the process stdio.
func New(workDir string) *Loader {
	return &Loader{WorkDir: workDir, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Load imports the manifest at path and appends every conforming command to
// out in file order. Non-conforming entries are skipped with a warning; only
// an unreadable or unparsable manifest is an error.
func (l *Loader) Load(ctx context.Context, path string, out *[]command.Descriptor) error {
	modulePath, ok, err := l.realPath(path)
	if err != nil {
		return &ImportError{Path: path, Err: err}
	}
	if !ok {
		colors.WarningTo(l.errOut(), fmt.Sprintf("%s: wrapper does not reference a module, skipping", wrapper.WrapperPath(path)))
		logging.Warn("wrapper without module reference", "path", path)
		return nil
	}

	data, err := os.ReadFile(modulePath)
	if err != nil {
		return &ImportError{Path: modulePath, Err: err}
	}
	entries, err := decodeManifest(data)
	if err != nil {
		return &ImportError{Path: modulePath, Err: err}
	}

	moduleDir := filepath.Dir(modulePath)
	loaded := 0
	for i, raw := range entries {
		d, err := l.descriptor(moduleDir, raw)
		if err == nil {
			err = command.Validate(d)
		}
		if err != nil {
			colors.WarningTo(l.errOut(), fmt.Sprintf("%s: command entry %d ignored: %v", modulePath, i+1, err))
			logging.Warn("command entry rejected", "path", modulePath, "index", i, "error", err.Error())
			continue
		}
		*out = append(*out, d)
		loaded++
	}
	colors.StructuredDebug("loader", "load", "ok", nil, map[string]any{
		"path":     modulePath,
		"entries":  len(entries),
		"commands": loaded,
	})
	return nil
}

// realPath follows a wrapper stub sitting next to path, if there is one.
func (l *Loader) errOut() io.Writer {
	if l.Stderr == nil {
		return os.Stderr
	}
	return l.Stderr
}

func (l *Loader) realPath(path string) (string, bool, error) {
	stub := wrapper.WrapperPath(path)
	if !fsutil.FileExists(stub) {
		return path, true, nil
	}
	contents, err := os.ReadFile(stub)
	if err != nil {
		return "", false, err
	}
	modulePath, ok := wrapper.ResolveRealModulePath(string(contents), l.WorkDir)
	return modulePath, ok, nil
}
