package loader

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"

	"github.com/cristianoliveira/repokit/internal/command"
)

// exportKey is the top-level key holding a manifest's commands.
const exportKey = "command"

// decodeManifest parses data and returns the raw values exported under
// exportKey. Elements are not validated here.
func decodeManifest(data []byte) ([]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	switch v := doc[exportKey].(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, nil
	default:
		return []any{v}, nil
	}
}

type entry struct {
	name        string
	pattern     string
	description string
	script      *syntax.File
	dir         string
	options     []command.Option
}

func (l *Loader) descriptor(moduleDir string, raw any) (command.Descriptor, error) {
	e, err := decodeEntry(raw)
	if err != nil {
		return nil, err
	}
	r := &scriptRunner{
		name:      e.name,
		file:      e.script,
		dir:       e.dir,
		moduleDir: moduleDir,
		loader:    l,
	}
	return &command.Spec{
		CommandName: e.name,
		Pattern:     e.pattern,
		Summary:     e.description,
		Flags:       e.options,
		RunFunc:     r.run,
	}, nil
}

func decodeEntry(raw any) (*entry, error) {
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a table, got %T", raw)
	}
	var (
		e   entry
		run string
		err error
	)
	if e.name, err = stringField(table, "name", true); err != nil {
		return nil, err
	}
	if e.pattern, err = stringField(table, "command", false); err != nil {
		return nil, err
	}
	if e.description, err = stringField(table, "description", false); err != nil {
		return nil, err
	}
	if e.dir, err = stringField(table, "dir", false); err != nil {
		return nil, err
	}
	if run, err = stringField(table, "run", true); err != nil {
		return nil, err
	}
	e.script, err = syntax.NewParser().Parse(strings.NewReader(run), e.name)
	if err != nil {
		return nil, fmt.Errorf("parse run script: %w", err)
	}
	if e.options, err = decodeOptions(table["option"]); err != nil {
		return nil, err
	}
	return &e, nil
}

func decodeOptions(raw any) ([]command.Option, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	case []map[string]any:
		for _, m := range v {
			items = append(items, m)
		}
	case map[string]any:
		items = []any{v}
	default:
		return nil, fmt.Errorf("option: expected a table or array of tables, got %T", raw)
	}

	opts := make([]command.Option, 0, len(items))
	for _, item := range items {
		table, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("option: expected a table, got %T", item)
		}
		var (
			o   command.Option
			typ string
			err error
		)
		if o.Name, err = stringField(table, "name", true); err != nil {
			return nil, fmt.Errorf("option: %w", err)
		}
		if o.Alias, err = stringField(table, "alias", false); err != nil {
			return nil, fmt.Errorf("option %q: %w", o.Name, err)
		}
		if o.Usage, err = stringField(table, "description", false); err != nil {
			return nil, fmt.Errorf("option %q: %w", o.Name, err)
		}
		if typ, err = stringField(table, "type", false); err != nil {
			return nil, fmt.Errorf("option %q: %w", o.Name, err)
		}
		o.Type = command.OptionType(typ)
		if o.Type == "" {
			o.Type = command.TypeString
		}
		o.Default = table["default"]
		opts = append(opts, o)
	}
	return opts, nil
}

func stringField(table map[string]any, key string, required bool) (string, error) {
	raw, ok := table[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing %q", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string, got %T", key, raw)
	}
	if required && strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%q must not be empty", key)
	}
	return s, nil
}
