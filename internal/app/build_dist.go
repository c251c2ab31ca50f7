package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/fsutil"
)

const manifestFile = "package.json"

// DistFiles are copied into the output directory when present.
var DistFiles = []string{"README.md", "LICENSE", "CHANGELOG.md"}

var (
	droppedKeys = []string{"scripts", "devDependencies"}
	entryKeys   = []string{"main", "types", "module"}
)

// BuildDistInput represents build-dist command inputs after flag parsing.
type BuildDistInput struct {
	WorkDir string
	OutDir  string
	// Files are extra files to copy; unlike DistFiles they must exist.
	Files  []string
	Output io.Writer
}

// BuildDistUseCase prepares a publishable package directory.
type BuildDistUseCase struct{}

// NewBuildDistUseCase creates a build-dist use-case.
func NewBuildDistUseCase() *BuildDistUseCase {
	return &BuildDistUseCase{}
}

// Execute writes the filtered package manifest and copies the package files
// into OutDir.
func (u *BuildDistUseCase) Execute(input BuildDistInput) error {
	out := input.OutDir
	if out == "" {
		return fmt.Errorf("build-dist: output directory cannot be empty")
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(input.WorkDir, out)
	}

	src := filepath.Join(input.WorkDir, manifestFile)
	if !fsutil.FileExists(src) {
		return fmt.Errorf("build-dist: %s not found in %s", manifestFile, input.WorkDir)
	}
	dst := filepath.Join(out, manifestFile)
	if samePath(out, input.WorkDir) || samePath(src, dst) {
		return fmt.Errorf("build-dist: output directory %s is the project directory", input.OutDir)
	}
	if err := fsutil.FilterFile(src, dst, FilterPackageJSON); err != nil {
		return fmt.Errorf("build-dist: %w", err)
	}
	w := orStdout(input.Output)
	fmt.Fprintf(w, "wrote %s\n", filepath.Join(out, manifestFile))

	for _, name := range DistFiles {
		from := filepath.Join(input.WorkDir, name)
		if !fsutil.FileExists(from) {
			colors.Debug("build-dist: skipping missing " + name)
			continue
		}
		if err := copyInto(from, out, w); err != nil {
			return err
		}
	}
	for _, name := range input.Files {
		from := name
		if !filepath.IsAbs(from) {
			from = filepath.Join(input.WorkDir, name)
		}
		if !fsutil.FileExists(from) {
			return fmt.Errorf("build-dist: %s not found", name)
		}
		if err := copyInto(from, out, w); err != nil {
			return err
		}
	}
	return nil
}

func copyInto(from, outDir string, w io.Writer) error {
	to := filepath.Join(outDir, filepath.Base(from))
	if samePath(from, to) {
		return fmt.Errorf("build-dist: %s is already in %s", from, outDir)
	}
	if err := fsutil.CopyFile(from, to); err != nil {
		return fmt.Errorf("build-dist: %w", err)
	}
	fmt.Fprintf(w, "copied %s\n", to)
	return nil
}

// FilterPackageJSON removes development-only keys from a package manifest
// and rewrites entry paths so they resolve from inside the dist directory.
func FilterPackageJSON(data []byte) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", manifestFile)
	}
	var err error
	for _, key := range droppedKeys {
		if data, err = sjson.DeleteBytes(data, key); err != nil {
			return nil, fmt.Errorf("drop %s: %w", key, err)
		}
	}
	for _, key := range entryKeys {
		v := gjson.GetBytes(data, key)
		if v.Type != gjson.String {
			continue
		}
		rewritten, ok := stripDistPrefix(v.Str)
		if !ok {
			continue
		}
		if data, err = sjson.SetBytes(data, key, rewritten); err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", key, err)
		}
	}
	return pretty.Pretty(data), nil
}

func stripDistPrefix(p string) (string, bool) {
	for _, prefix := range []string{"./dist/", "dist/"} {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix), true
		}
	}
	return p, false
}

// samePath reports whether a and b name the same file, following symlinks
// when both exist.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, errA := os.Stat(a)
	bi, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(ai, bi)
}

func orStdout(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return os.Stdout
}
