// Package fsutil holds the filesystem probes and file helpers shared by
// discovery and the built-in commands.
package fsutil

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Permissions for files and directories created by repokit.
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// PathExists reports whether anything exists at path.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileExists reports whether path is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileRecord is one entry produced by FindFiles.
type FileRecord struct {
	Path string
	Info fs.FileInfo
}

// FindFiles walks root in lexical order and yields the records accepted by
// keep. Directories are traversed but never yielded. The sequence is lazy
// and single-use; a walk error is yielded once and ends the sequence.
func FindFiles(root string, keep func(FileRecord) bool) iter.Seq2[FileRecord, error] {
	return FindFilesPruned(root, nil, keep)
}

// FindFilesPruned is FindFiles that does not descend into directories for
// which skipDir returns true.
func FindFilesPruned(root string, skipDir func(path string) bool, keep func(FileRecord) bool) iter.Seq2[FileRecord, error] {
	return func(yield func(FileRecord, error) bool) {
		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipDir != nil && skipDir(path) {
					return fs.SkipDir
				}
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			rec := FileRecord{Path: path, Info: info}
			if keep != nil && !keep(rec) {
				return nil
			}
			if !yield(rec, nil) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield(FileRecord{}, fmt.Errorf("walk %s: %w", root, err))
		}
	}
}

// FilterFile reads src, passes its contents through transform and writes the
// result to dst, creating dst's parent directories.
func FilterFile(src, dst string, transform func([]byte) ([]byte, error)) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if transform != nil {
		if data, err = transform(data); err != nil {
			return fmt.Errorf("transform %s: %w", src, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}
	mode := FileMode
	if info, err := os.Stat(src); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// CopyFile copies src to dst unchanged.
func CopyFile(src, dst string) error {
	return FilterFile(src, dst, nil)
}
