package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/repokit/internal/command"
	"github.com/cristianoliveira/repokit/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(h *host) command.Descriptor {
	return &command.Spec{
		CommandName: "version",
		Summary:     "Show version information",
		RunFunc: func(ctx context.Context, args command.Args) (int, error) {
			fmt.Fprintf(h.stdout, "repokit version %s\n", version.String())
			return 0, nil
		},
	}
}
