package pathresolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleDir(t *testing.T) {
	globalDir := t.TempDir()
	host := filepath.Join(globalDir, HostName)

	tests := []struct {
		name  string
		setup func(t *testing.T, workDir string)
		local bool
	}{
		{
			name:  "no local installation",
			setup: func(t *testing.T, workDir string) {},
		},
		{
			name: "direct launcher",
			setup: func(t *testing.T, workDir string) {
				writeLauncher(t, filepath.Join(workDir, BinDir, HostName))
			},
			local: true,
		},
		{
			name: "windows wrapper stub",
			setup: func(t *testing.T, workDir string) {
				writeLauncher(t, filepath.Join(workDir, BinDir, HostName+WrapperSuffix))
			},
			local: true,
		},
		{
			name: "bin dir without launcher",
			setup: func(t *testing.T, workDir string) {
				writeLauncher(t, filepath.Join(workDir, BinDir, "tsc"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workDir := t.TempDir()
			tt.setup(t, workDir)

			got := ModuleDir(host, workDir)

			if tt.local {
				assert.Equal(t, filepath.Join(workDir, BinDir), got)
			} else {
				assert.Equal(t, globalDir, got)
			}
		})
	}
}

func TestModuleDirWithoutWorkDir(t *testing.T) {
	assert.Equal(t, filepath.Join("opt", "repokit"), ModuleDir(filepath.Join("opt", "repokit", HostName), ""))
}

func TestHostPathIsAbsolute(t *testing.T) {
	p := HostPath()
	assert.True(t, filepath.IsAbs(p), p)
}

func writeLauncher(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
}
