package fsutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DirMode))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), FileMode))
}

func TestExistenceProbes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	touch(t, file)
	missing := filepath.Join(dir, "missing")

	assert.True(t, PathExists(file))
	assert.True(t, PathExists(dir))
	assert.False(t, PathExists(missing))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(missing))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.False(t, DirExists(missing))
}

func TestFindFilesYieldsFilesInLexicalOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b", "z.ts"))
	touch(t, filepath.Join(root, "a.ts"))
	touch(t, filepath.Join(root, "b", "a.md"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), DirMode))

	var got []string
	for rec, err := range FindFiles(root, nil) {
		require.NoError(t, err)
		rel, relErr := filepath.Rel(root, rec.Path)
		require.NoError(t, relErr)
		got = append(got, filepath.ToSlash(rel))
		assert.False(t, rec.Info.IsDir())
	}

	assert.Equal(t, []string{"a.ts", "b/a.md", "b/z.ts"}, got)
}

func TestFindFilesPredicateAndEarlyStop(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"1.ts", "2.md", "3.ts", "4.ts"} {
		touch(t, filepath.Join(root, name))
	}

	var got []string
	for rec, err := range FindFiles(root, func(r FileRecord) bool { return strings.HasSuffix(r.Path, ".ts") }) {
		require.NoError(t, err)
		got = append(got, filepath.Base(rec.Path))
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"1.ts", "3.ts"}, got)
}

func TestFindFilesMissingRoot(t *testing.T) {
	var errs []error
	for _, err := range FindFiles(filepath.Join(t.TempDir(), "nope"), nil) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], os.ErrNotExist))
}

func TestFilterFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), FileMode))
	dst := filepath.Join(dir, "out", "nested", "in.txt")

	err := FilterFile(src, dst, func(b []byte) ([]byte, error) { return bytes.ToUpper(b), nil })
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", string(data))
}

func TestFilterFileTransformError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), FileMode))
	dst := filepath.Join(dir, "out.txt")

	err := FilterFile(src, dst, func([]byte) ([]byte, error) { return nil, errors.New("bad input") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")
	assert.False(t, PathExists(dst))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "LICENSE")
	require.NoError(t, os.WriteFile(src, []byte("MIT"), FileMode))

	require.NoError(t, CopyFile(src, filepath.Join(dir, "dist", "LICENSE")))

	data, err := os.ReadFile(filepath.Join(dir, "dist", "LICENSE"))
	require.NoError(t, err)
	assert.Equal(t, "MIT", string(data))
	assert.Error(t, CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "x")))
}

func TestFindFilesPrunedSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "src", "index.ts"))
	touch(t, filepath.Join(root, "node_modules", "dep", "index.ts"))
	touch(t, filepath.Join(root, "node_modules", "dep", "lib", "util.ts"))

	var skipped, kept []string
	skipDir := func(path string) bool {
		if filepath.Base(path) == "node_modules" {
			skipped = append(skipped, path)
			return true
		}
		return false
	}
	keep := func(r FileRecord) bool {
		kept = append(kept, r.Path)
		return true
	}
	var got []string
	for rec, err := range FindFilesPruned(root, skipDir, keep) {
		require.NoError(t, err)
		got = append(got, rec.Path)
	}

	assert.Equal(t, []string{filepath.Join(root, "node_modules")}, skipped)
	assert.Equal(t, []string{filepath.Join(root, "src", "index.ts")}, kept)
	assert.Equal(t, kept, got)
}
