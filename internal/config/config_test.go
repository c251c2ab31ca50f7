package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at a temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	for _, key := range []string{"REPOKIT_CONFIG_PATH", "REPOKIT_CONFIG_DIR", "REPOKIT_STATE_DIR", "REPOKIT_DIST_DIR", "REPOKIT_LOGGING_LEVEL", "REPOKIT_DOCS_TOOL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return tmp
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), FileModeDir))
	require.NoError(t, os.WriteFile(path, []byte(content), FileModeFile))
}

func TestLoadDefaults(t *testing.T) {
	tmp := isolate(t)

	cfg := Load(t.TempDir())

	assert.Equal(t, filepath.Join(tmp, "config", "repokit"), cfg.ConfigDir)
	assert.Equal(t, filepath.Join(tmp, "state", "repokit"), cfg.StateDir)
	assert.Equal(t, "info", cfg.LoggingLevel)
	assert.Equal(t, 10, cfg.LoggingMaxFiles)
	assert.Equal(t, "typedoc", cfg.DocsTool)
	assert.Equal(t, "typedoc.json", cfg.DocsConfig)
	assert.Equal(t, "dist", cfg.DistDir)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, filepath.Join(cfg.StateDir, "history.db"), cfg.HistoryPath)
	assert.Same(t, cfg, Current())
}

func TestLoadPrecedence(t *testing.T) {
	tmp := isolate(t)
	workDir := t.TempDir()

	writeFile(t, filepath.Join(tmp, "config", "repokit", "config.toml"), `
docs_tool = "user-tool"
docs_root = "lib"
logging_level = "debug"
dist_dir = "user-dist"
`)
	writeFile(t, filepath.Join(workDir, ProjectFileName), `
docs_root = "packages"
dist_dir = "project-dist"
`)
	t.Setenv("REPOKIT_DIST_DIR", "env-dist")

	cfg := Load(workDir)

	assert.Equal(t, "user-tool", cfg.DocsTool, "user file applies when nothing overrides it")
	assert.Equal(t, "debug", cfg.LoggingLevel)
	assert.Equal(t, "packages", cfg.DocsRoot, "project file overrides user file")
	assert.Equal(t, "env-dist", cfg.DistDir, "environment wins over files")
}

func TestLoadExplicitConfigPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "history_enabled = true\nhistory_path = \"/tmp/h.db\"\n")
	t.Setenv("REPOKIT_CONFIG_PATH", path)

	cfg := Load("")

	assert.True(t, cfg.HistoryEnabled)
	assert.Equal(t, "/tmp/h.db", cfg.HistoryPath)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	isolate(t)
	var errOut bytes.Buffer
	t.Cleanup(colors.SetOutput(nil, &errOut))

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ProjectFileName), `
logging_level = "loud"
logging_max_files = 0
docs_tool = ""
surprise = 1
`)

	cfg := Load(workDir)

	assert.Equal(t, "info", cfg.LoggingLevel)
	assert.Equal(t, 10, cfg.LoggingMaxFiles)
	assert.Equal(t, "typedoc", cfg.DocsTool)
	assert.Contains(t, errOut.String(), "invalid logging_level value 'loud'")
	assert.Contains(t, errOut.String(), "unknown keys")
	assert.Contains(t, errOut.String(), "surprise")
}

func TestLoadMalformedFileIsSkipped(t *testing.T) {
	isolate(t)
	var errOut bytes.Buffer
	t.Cleanup(colors.SetOutput(nil, &errOut))

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ProjectFileName), "docs_tool = [unterminated\n")

	cfg := Load(workDir)

	assert.Equal(t, "typedoc", cfg.DocsTool)
	assert.Contains(t, errOut.String(), "unable to parse config file")
}

func TestLoadWarningAliasNormalized(t *testing.T) {
	isolate(t)
	t.Setenv("REPOKIT_LOGGING_LEVEL", "WARNING")

	cfg := Load("")

	assert.Equal(t, "warn", cfg.LoggingLevel)
}
