package main

import (
	"context"

	"github.com/cristianoliveira/repokit/internal/app"
	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
)

var (
	defaultDocsInclude = []string{"**/*.ts", "**/*.tsx"}
	defaultDocsExclude = []string{"**/*.spec.ts", "**/*.test.ts", "**/*.d.ts", "**/node_modules/**"}
)

// NewDocsCmd creates the docs command.
func NewDocsCmd(h *host) command.Descriptor {
	useCase := app.NewDocsUseCase(app.ProcessClient{})
	return &command.Spec{
		CommandName: "docs",
		Pattern:     "docs [root]",
		Summary:     "Generate API documentation from the source tree",
		Flags: []command.Option{
			{Name: "config", Alias: "c", Type: command.TypeString, Default: h.cfg.DocsConfig, Usage: "Generator configuration file"},
			{Name: "include", Alias: "i", Type: command.TypeArray, Default: defaultDocsInclude, Usage: "Glob selecting entry points (repeatable)"},
			{Name: "exclude", Alias: "x", Type: command.TypeArray, Default: defaultDocsExclude, Usage: "Glob rejecting entry points (repeatable)"},
			{Name: "prefer-index", Type: command.TypeBool, Default: true, Usage: "Let index.ts stand for its directory"},
			{Name: "tool", Type: command.TypeString, Default: h.cfg.DocsTool, Usage: "Documentation generator to run"},
			{Name: "dry-run", Alias: "n", Type: command.TypeBool, Usage: "Print the generator command without running it"},
		},
		RunFunc: func(ctx context.Context, args command.Args) (int, error) {
			root := h.cfg.DocsRoot
			if len(args.Positionals) > 0 {
				root = args.Positionals[0]
			}
			code, err := useCase.Execute(ctx, app.DocsInput{
				Root:        root,
				WorkDir:     h.workDir,
				Config:      args.String("config"),
				Include:     args.Strings("include"),
				Exclude:     args.Strings("exclude"),
				PreferIndex: args.Bool("prefer-index"),
				Tool:        args.String("tool"),
				DryRun:      args.Bool("dry-run"),
				Output:      h.stdout,
			})
			if err != nil {
				colors.ErrorTo(h.stderr, err.Error())
				return 1, nil
			}
			return code, nil
		},
	}
}
