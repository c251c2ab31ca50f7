// Package wrapper reads the launcher stubs package managers write on Windows,
// where a module is installed as a small .cmd script referencing the real
// file instead of as a symlink to it.
package wrapper

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cristianoliveira/repokit/internal/pathresolve"
)

// modulePattern matches the back-reference a stub uses to reach the real
// module: `..\` followed by a backslash separated path ending in .toml.
var modulePattern = regexp.MustCompile(`\.\.\\([^"'\r\n%*]+?\.toml)`)

// WrapperPath returns the stub that would sit next to candidate.
func WrapperPath(candidate string) string {
	return candidate + pathresolve.WrapperSuffix
}

// Extract returns the module path embedded in a stub, relative to the
// dependency directory and still backslash separated.
func Extract(contents string) (string, bool) {
	m := modulePattern.FindStringSubmatch(contents)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ResolveRealModulePath returns the module a stub points at, rooted under
// the dependency directory of workDir.
func ResolveRealModulePath(contents, workDir string) (string, bool) {
	rel, ok := Extract(contents)
	if !ok {
		return "", false
	}
	rel = filepath.FromSlash(strings.ReplaceAll(rel, `\`, "/"))
	return filepath.Join(workDir, pathresolve.DependencyDir, rel), true
}
