package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/entrypoint"
	"github.com/cristianoliveira/repokit/internal/execx"
)

// ErrNoEntryPoints is returned when the rules select no file.
var ErrNoEntryPoints = errors.New("no entry points matched")

// DocsClient starts the documentation generator.
type DocsClient interface {
	Run(ctx context.Context, cmd execx.Cmd) (int, error)
}

// ProcessClient runs commands through execx.
type ProcessClient struct{}

// Run implements DocsClient.
func (ProcessClient) Run(ctx context.Context, cmd execx.Cmd) (int, error) {
	return execx.Run(ctx, cmd)
}

// DocsInput represents docs command inputs after flag parsing.
type DocsInput struct {
	// Root is the source root; empty selects the conventional one.
	Root        string
	WorkDir     string
	Config      string
	Include     []string
	Exclude     []string
	PreferIndex bool
	Tool        string
	DryRun      bool
	Output      io.Writer
}

// DocsUseCase resolves entry points and hands them to the generator.
type DocsUseCase struct {
	client DocsClient
}

// NewDocsUseCase creates a docs use-case.
func NewDocsUseCase(client DocsClient) *DocsUseCase {
	if client == nil {
		panic("NewDocsUseCase: client dependency cannot be nil")
	}
	return &DocsUseCase{client: client}
}

// Execute returns the generator's exit status unchanged.
func (u *DocsUseCase) Execute(ctx context.Context, input DocsInput) (int, error) {
	root, err := entrypoint.SourceRoot(input.Root, input.WorkDir)
	if err != nil {
		return 1, fmt.Errorf("docs: %w", err)
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(input.WorkDir, root)
	}

	paths, err := entrypoint.Resolve(entrypoint.Options{
		Root:        root,
		Include:     input.Include,
		Exclude:     input.Exclude,
		PreferIndex: input.PreferIndex,
		WorkDir:     input.WorkDir,
	})
	if err != nil {
		return 1, fmt.Errorf("docs: %w", err)
	}
	if len(paths) == 0 {
		return 1, fmt.Errorf("docs: %w under %s", ErrNoEntryPoints, root)
	}

	cmd := execx.Cmd{
		Name:   execx.LookTool(input.Tool, input.WorkDir),
		Args:   GeneratorArgs(input.Config, paths),
		Dir:    input.WorkDir,
		Stdout: input.Output,
	}
	if input.DryRun {
		fmt.Fprintln(orStdout(input.Output), cmd.String())
		return 0, nil
	}

	colors.Debug(fmt.Sprintf("docs: %d entry points", len(paths)))
	return u.client.Run(ctx, cmd)
}

// GeneratorArgs builds the generator's argument list: the configuration
// file followed by one --entryPoints flag per path.
func GeneratorArgs(config string, paths []string) []string {
	args := make([]string, 0, 2+2*len(paths))
	args = append(args, "--options", config)
	for _, p := range paths {
		args = append(args, "--entryPoints", filepath.ToSlash(p))
	}
	return args
}
