package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
	"github.com/cristianoliveira/repokit/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd(h *host) command.Descriptor {
	return &command.Spec{
		CommandName: "history",
		Summary:     "Show recently dispatched commands",
		Flags: []command.Option{
			{Name: "limit", Alias: "l", Type: command.TypeInt, Default: 20, Usage: "Maximum number of entries"},
		},
		RunFunc: func(ctx context.Context, args command.Args) (int, error) {
			if !h.cfg.HistoryEnabled {
				colors.WarningTo(h.stderr, "history is disabled; set history_enabled = true to record commands")
				return 0, nil
			}
			store, err := history.Open(h.cfg.HistoryPath)
			if err != nil {
				colors.ErrorTo(h.stderr, err.Error())
				return 1, nil
			}
			defer store.Close()

			entries, err := store.Recent(ctx, args.Int("limit"))
			if err != nil {
				colors.ErrorTo(h.stderr, err.Error())
				return 1, nil
			}
			for _, e := range entries {
				fmt.Fprintln(h.stdout, formatEntry(e))
			}
			return 0, nil
		},
	}
}

func formatEntry(e history.Entry) string {
	line := fmt.Sprintf("%s  %3d  %-8s %s",
		e.StartedAt.Local().Format(time.DateTime),
		e.ExitCode,
		e.Duration.Round(time.Millisecond),
		strings.TrimSpace(e.Command+" "+strings.Join(e.Args, " ")))
	if e.Error != "" {
		line += "  " + colors.MutedStyle.Render("("+e.Error+")")
	}
	return line
}
