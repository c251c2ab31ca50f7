package dispatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
)

func (d *Dispatcher) printHelp(w io.Writer) {
	var cmdLines []string
	for _, desc := range d.reg.Descriptors() {
		use := fmt.Sprintf("%-16s", command.Use(desc))
		cmdLines = append(cmdLines, fmt.Sprintf("    %s %s", colors.NameStyle.Render(use), desc.Description()))
	}
	if len(cmdLines) == 0 {
		cmdLines = append(cmdLines, "    (none)")
	}

	header := d.opts.Name
	if d.opts.Version != "" {
		header += " " + d.opts.Version
	}
	summary := ""
	if d.opts.Summary != "" {
		summary = "\n" + d.opts.Summary + "\n"
	}

	fmt.Fprintf(w, `%s
%s
USAGE:
    %s [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, header, summary, d.opts.Name, strings.Join(cmdLines, "\n"))
}
