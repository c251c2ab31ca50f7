// Package pathresolve finds the directory holding sibling command modules.
package pathresolve

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/repokit/internal/fsutil"
)

const (
	// HostName is the name of the host binary.
	HostName = "repokit"
	// DependencyDir is the package manager's install directory under a project.
	DependencyDir = "node_modules"
	// WrapperSuffix is appended to a file name by the Windows launcher stubs
	// package managers generate in place of symlinks.
	WrapperSuffix = ".cmd"
)

// BinDir is the project-local directory holding installed launchers.
var BinDir = filepath.Join(DependencyDir, ".bin")

// ModuleDir returns the directory to search for command modules. It defaults
// to the directory of hostPath. When workDir has a local installation of the
// host, either as a direct launcher or as a Windows wrapper stub, the local
// bin directory wins, because stubs are not symlinks and hostPath would
// otherwise point outside the project.
func ModuleDir(hostPath, workDir string) string {
	dir := filepath.Dir(hostPath)
	if workDir == "" {
		return dir
	}
	local := filepath.Join(workDir, BinDir)
	launcher := filepath.Join(local, HostName)
	if fsutil.PathExists(launcher) || fsutil.PathExists(launcher+WrapperSuffix) {
		return local
	}
	return dir
}

// HostPath returns the path of the running executable with symlinks
// resolved, falling back to os.Args[0].
func HostPath() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if abs, err := filepath.Abs(exe); err == nil {
		exe = abs
	}
	return exe
}
