package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
	"github.com/cristianoliveira/repokit/internal/registry"
)

// NewCommandsCmd creates the commands command, which lists what discovery
// registered and where each command came from.
func NewCommandsCmd(h *host) command.Descriptor {
	return &command.Spec{
		CommandName: "commands",
		Summary:     "List available commands and their sources",
		RunFunc: func(ctx context.Context, args command.Args) (int, error) {
			reg := h.registry()
			for _, d := range reg.Descriptors() {
				source := reg.Source(d.Name())
				if source != registry.SourceBuiltin {
					if rel, err := filepath.Rel(h.workDir, source); err == nil && !strings.HasPrefix(rel, "..") {
						source = rel
					}
				}
				fmt.Fprintf(h.stdout, "%s %s\n",
					colors.NameStyle.Render(fmt.Sprintf("%-16s", d.Name())),
					colors.MutedStyle.Render(source))
			}
			return 0, nil
		},
	}
}
