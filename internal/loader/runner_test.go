package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/repokit/internal/command"
)

func loadOne(t *testing.T, workDir, manifest string) (command.Descriptor, *bytes.Buffer) {
	t.Helper()
	path := writeFile(t, filepath.Join(t.TempDir(), "repokit-run.toml"), manifest)
	l, stdout := testLoader(t, workDir)
	var out []command.Descriptor
	require.NoError(t, l.Load(context.Background(), path, &out))
	require.Len(t, out, 1)
	return out[0], stdout
}

func TestRunnerExitStatusIsVerbatim(t *testing.T) {
	d, _ := loadOne(t, t.TempDir(), "[command]\nname = \"fail\"\nrun = \"exit 7\"\n")

	code, err := d.Run(context.Background(), command.Args{})

	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestRunnerReceivesPositionalsAndOptions(t *testing.T) {
	d, stdout := loadOne(t, t.TempDir(), `
[command]
name = "greet"
command = "greet <who>"
run = 'echo "$1 $2 fix=$REPOKIT_OPT_FIX files=$REPOKIT_OPT_OUT_FILES"'
`)

	code, err := d.Run(context.Background(), command.Args{
		Positionals: []string{"-v", "world"},
		Values:      map[string]any{"fix": true, "out-files": []string{"a", "b"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "-v world fix=true files=a,b\n", stdout.String())
}

func TestRunnerExportsModuleDir(t *testing.T) {
	moduleDir := t.TempDir()
	path := writeFile(t, filepath.Join(moduleDir, "repokit-where.toml"), "[command]\nname = \"where\"\nrun = 'echo \"$REPOKIT_MODULE_DIR\"'\n")
	l, out := testLoader(t, t.TempDir())
	var ds []command.Descriptor
	require.NoError(t, l.Load(context.Background(), path, &ds))
	require.Len(t, ds, 1)

	code, err := ds[0].Run(context.Background(), command.Args{})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, moduleDir+"\n", out.String())
}

func TestRunnerRunsInConfiguredDir(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(workDir, "pkg"), 0755))
	d, _ := loadOne(t, workDir, "[command]\nname = \"touch\"\ndir = \"pkg\"\nrun = \"echo done > marker.txt\"\n")

	code, err := d.Run(context.Background(), command.Args{})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	data, err := os.ReadFile(filepath.Join(workDir, "pkg", "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(data))
}
