package main

import (
	"context"

	"github.com/cristianoliveira/repokit/internal/app"
	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
)

// NewBuildDistCmd creates the build-dist command.
func NewBuildDistCmd(h *host) command.Descriptor {
	useCase := app.NewBuildDistUseCase()
	return &command.Spec{
		CommandName: "build-dist",
		Summary:     "Prepare a publishable package directory",
		Flags: []command.Option{
			{Name: "out", Alias: "o", Type: command.TypeString, Default: h.cfg.DistDir, Usage: "Output directory"},
			{Name: "files", Alias: "f", Type: command.TypeArray, Usage: "Extra file to copy (repeatable)"},
		},
		RunFunc: func(ctx context.Context, args command.Args) (int, error) {
			err := useCase.Execute(app.BuildDistInput{
				WorkDir: h.workDir,
				OutDir:  args.String("out"),
				Files:   args.Strings("files"),
				Output:  h.stdout,
			})
			if err != nil {
				colors.ErrorTo(h.stderr, err.Error())
				return 1, nil
			}
			colors.SuccessTo(h.stdout, "dist ready in "+args.String("out"))
			return 0, nil
		},
	}
}
