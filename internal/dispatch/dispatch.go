// Package dispatch routes one invocation of the host to the registered
// command it names and turns the outcome into a process exit status.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cristianoliveira/repokit/internal/colors"
	"github.com/cristianoliveira/repokit/internal/command"
	"github.com/cristianoliveira/repokit/internal/history"
	"github.com/cristianoliveira/repokit/internal/logging"
	"github.com/cristianoliveira/repokit/internal/registry"
)

// DiscoverFunc fills reg before any dispatch happens.
type DiscoverFunc func(ctx context.Context, reg *registry.Registry) error

// Recorder receives one entry per dispatched command.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Options configures a Dispatcher.
type Options struct {
	// Name is the host's name in usage and help.
	Name    string
	Version string
	Summary string
	// WorkDir is recorded with each history entry.
	WorkDir  string
	Discover DiscoverFunc
	Stdout   io.Writer
	Stderr   io.Writer
	Recorder Recorder
}

// Dispatcher runs discovery once and then a single command.
type Dispatcher struct {
	opts  Options
	reg   *registry.Registry
	state State
	args  []string
}

// New creates a Dispatcher. Nil streams default to the process's.
func New(opts Options) *Dispatcher {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Name == "" {
		opts.Name = "repokit"
	}
	return &Dispatcher{opts: opts, reg: registry.New()}
}

// State returns the current lifecycle stage.
func (d *Dispatcher) State() State { return d.state }

// Registry exposes the commands found by discovery.
func (d *Dispatcher) Registry() *registry.Registry { return d.reg }

// Run discovers commands, dispatches args and returns the exit status.
// A Dispatcher runs at most once.
func (d *Dispatcher) Run(ctx context.Context, args []string) int {
	if d.state != Idle {
		colors.ErrorTo(d.opts.Stderr, "dispatcher already ran")
		return 1
	}
	d.args = args

	d.state = Discovering
	if d.opts.Discover != nil {
		if err := d.opts.Discover(ctx, d.reg); err != nil {
			d.state = Failed
			colors.ErrorTo(d.opts.Stderr, err.Error())
			logging.Error("discovery failed", "error", err.Error())
			return 1
		}
	}
	d.reg.Freeze()
	d.state = Registered
	logging.Debug("discovery finished", "commands", d.reg.Len())

	root := d.rootCommand()
	root.SetArgs(args)
	root.SetOut(d.opts.Stdout)
	root.SetErr(d.opts.Stderr)

	d.state = Dispatching
	err := root.ExecuteContext(ctx)
	if d.state == Dispatching {
		// help and version output end here without a runner
		if err == nil {
			d.state = Succeeded
		} else {
			d.state = Failed
		}
	}
	return d.exitCode(err)
}

func (d *Dispatcher) exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			colors.ErrorTo(d.opts.Stderr, exitErr.Err.Error())
		}
		return exitErr.Code
	}
	colors.ErrorTo(d.opts.Stderr, err.Error())
	return 1
}

func (d *Dispatcher) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:                d.opts.Name,
		Short:              d.opts.Summary,
		Version:            d.opts.Version,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				d.printHelp(d.opts.Stderr)
				return &ExitError{Code: 1}
			}
			switch args[0] {
			case "-h", "--help":
				d.printHelp(d.opts.Stdout)
				return nil
			case "-v", "--version":
				fmt.Fprintf(d.opts.Stdout, "%s version %s\n", d.opts.Name, d.opts.Version)
				return nil
			}
			logging.Warn("unsupported command", "name", args[0])
			return &ExitError{Code: 1, Err: fmt.Errorf("unsupported command %q", args[0])}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			d.printHelp(cmd.OutOrStdout())
			return
		}
		defaultHelp(cmd, args)
	})

	for _, desc := range d.reg.Descriptors() {
		root.AddCommand(d.subCommand(desc))
	}
	return root
}

func (d *Dispatcher) subCommand(desc command.Descriptor) *cobra.Command {
	name := desc.Name()
	opts := desc.Options()
	sub := &cobra.Command{
		Use:   command.Use(desc),
		Short: desc.Description(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := optionValues(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return d.dispatch(cmd.Context(), name, command.Args{Positionals: args, Values: values})
		},
	}

	aliases := make(map[string]string)
	flags := sub.Flags()
	for _, o := range opts {
		short := ""
		if len(o.Alias) == 1 {
			short = o.Alias
		} else if o.Alias != "" {
			aliases[o.Alias] = o.Name
		}
		def, _ := o.DefaultValue()
		switch o.Type {
		case command.TypeBool:
			flags.BoolP(o.Name, short, def.(bool), o.Usage)
		case command.TypeInt:
			flags.IntP(o.Name, short, def.(int), o.Usage)
		case command.TypeArray:
			flags.StringArrayP(o.Name, short, def.([]string), o.Usage)
		default:
			flags.StringP(o.Name, short, def.(string), o.Usage)
		}
	}
	if len(aliases) > 0 {
		sub.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, n string) pflag.NormalizedName {
			if target, ok := aliases[n]; ok {
				return pflag.NormalizedName(target)
			}
			return pflag.NormalizedName(n)
		})
	}
	return sub
}

func optionValues(flags *pflag.FlagSet, opts []command.Option) (map[string]any, error) {
	values := make(map[string]any, len(opts))
	for _, o := range opts {
		var (
			v   any
			err error
		)
		switch o.Type {
		case command.TypeBool:
			v, err = flags.GetBool(o.Name)
		case command.TypeInt:
			v, err = flags.GetInt(o.Name)
		case command.TypeArray:
			v, err = flags.GetStringArray(o.Name)
		default:
			v, err = flags.GetString(o.Name)
		}
		if err != nil {
			return nil, err
		}
		values[o.Name] = v
	}
	return values, nil
}

// dispatch looks the runner up once, runs it and maps the outcome.
func (d *Dispatcher) dispatch(ctx context.Context, name string, args command.Args) error {
	runner, ok := d.reg.Lookup(name)
	if !ok {
		return &ExitError{Code: 1, Err: fmt.Errorf("unsupported command %q", name)}
	}

	started := time.Now()
	code, err := invoke(ctx, runner, args)
	duration := time.Since(started)

	if err != nil {
		d.state = Failed
		code = 1
		logging.Error("command failed", "command", name, "error", err.Error())
		colors.StructuredError("dispatch", "run", "failed", err, map[string]any{"command": name})
	} else {
		d.state = Succeeded
		if code < 0 {
			logging.Warn("negative exit status", "command", name, "code", code)
			code = 1
		}
		logging.Info("command finished", "command", name, "code", code, "duration", duration.String())
	}
	d.record(ctx, name, code, err, started, duration)

	switch {
	case err != nil:
		return &ExitError{Code: 1, Err: fmt.Errorf("%s: %w", name, err)}
	case code != 0:
		return &ExitError{Code: code}
	}
	return nil
}

// invoke runs runner, converting a panic into an error.
func invoke(ctx context.Context, runner command.Runner, args command.Args) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			logging.Error("command panicked", "panic", fmt.Sprint(r), "stack", stack)
			colors.Debug("panic: " + fmt.Sprint(r) + "\n" + stack)
			code, err = 1, fmt.Errorf("panic: %v", r)
		}
	}()
	return runner(ctx, args)
}

func (d *Dispatcher) record(ctx context.Context, name string, code int, runErr error, started time.Time, duration time.Duration) {
	if d.opts.Recorder == nil {
		return
	}
	entry := history.Entry{
		Command:   name,
		Source:    d.reg.Source(name),
		WorkDir:   d.opts.WorkDir,
		ExitCode:  code,
		StartedAt: started,
		Duration:  duration,
	}
	if len(d.args) > 1 {
		entry.Args = append([]string(nil), d.args[1:]...)
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := d.opts.Recorder.Record(ctx, entry); err != nil {
		logging.Warn("history record failed", "command", name, "error", err.Error())
	}
}
