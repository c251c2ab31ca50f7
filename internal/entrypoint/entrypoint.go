// Package entrypoint selects and orders the source files handed to a
// documentation generator as entry points.
package entrypoint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/fsutil"
)

const (
	// IndexFile is the file that re-exports a directory's modules.
	IndexFile = "index.ts"
	// DefaultSourceRoot is used when no root is configured.
	DefaultSourceRoot = "src"
)

// ErrNoSourceRoot is returned when no root is configured and the
// conventional one does not exist.
var ErrNoSourceRoot = errors.New("no source root: pass one explicitly or create " + DefaultSourceRoot + "/")

// Record is one matched source file.
type Record struct {
	// Path is relative to the working directory when under it.
	Path    string
	Dir     string
	Base    string
	Ext     string
	Depth   int
	IsIndex bool
}

func newRecord(path string) Record {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	return Record{
		Path:    path,
		Dir:     dir,
		Base:    base,
		Ext:     filepath.Ext(base),
		Depth:   depth(dir),
		IsIndex: base == IndexFile,
	}
}

func depth(dir string) int {
	dir = filepath.ToSlash(filepath.Clean(dir))
	if dir == "." || dir == "/" {
		return 0
	}
	return len(strings.Split(strings.Trim(dir, "/"), "/"))
}

// Options configures a resolution.
type Options struct {
	Root        string
	Include     []string
	Exclude     []string
	PreferIndex bool
	// WorkDir is stripped from every path. Empty means the process's
	// working directory.
	WorkDir string
}

// Resolve returns the ordered entry point paths under opts.Root.
func Resolve(opts Options) ([]string, error) {
	records, err := Records(opts)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(records))
	for i, r := range records {
		paths[i] = r.Path
	}
	return paths, nil
}

// Records walks opts.Root and returns the selected files in emission order:
// non-index files before index files, deeper directories before shallower
// ones. Files that tie on both keys keep the lexical order of the walk.
// When PreferIndex is set, a directory holding an index file contributes
// only that file.
func Records(opts Options) ([]Record, error) {
	rules, err := Compile(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	workDir := opts.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("resolve entry points: %w", err)
		}
	}
	prefix := filepath.Clean(workDir) + string(filepath.Separator)

	selected := func(f fsutil.FileRecord) bool {
		return rules.Matches(relativeTo(f.Path, prefix))
	}

	excludedDir := func(path string) bool {
		return rules.ExcludesDir(relativeTo(path, prefix))
	}

	var records []Record
	for file, err := range fsutil.FindFilesPruned(opts.Root, excludedDir, selected) {
		if err != nil {
			return nil, fmt.Errorf("resolve entry points under %s: %w", opts.Root, err)
		}
		records = append(records, newRecord(relativeTo(file.Path, prefix)))
	}

	if opts.PreferIndex {
		records = preferIndex(records)
	}
	slices.SortStableFunc(records, compareRecords)

	colors.StructuredDebug("entrypoint", "resolve", "ok", nil, map[string]any{
		"root":    opts.Root,
		"entries": len(records),
	})
	return records, nil
}

func relativeTo(path, prefix string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.TrimPrefix(path, prefix)
}

func preferIndex(records []Record) []Record {
	indexed := make(map[string]bool)
	for _, r := range records {
		if r.IsIndex {
			indexed[r.Dir] = true
		}
	}
	kept := records[:0]
	for _, r := range records {
		if r.IsIndex || !indexed[r.Dir] {
			kept = append(kept, r)
		}
	}
	return kept
}

func compareRecords(a, b Record) int {
	if a.IsIndex != b.IsIndex {
		if a.IsIndex {
			return 1
		}
		return -1
	}
	return b.Depth - a.Depth
}

// SourceRoot returns configured when set, otherwise DefaultSourceRoot under
// workDir when it is a directory.
func SourceRoot(configured, workDir string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	root := filepath.Join(workDir, DefaultSourceRoot)
	if !fsutil.DirExists(root) {
		return "", ErrNoSourceRoot
	}
	return root, nil
}
