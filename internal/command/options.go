package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// OptionType is the value kind of an option.
type OptionType string

const (
	TypeString OptionType = "string"
	TypeBool   OptionType = "bool"
	TypeInt    OptionType = "int"
	// TypeArray is a repeatable string option.
	TypeArray OptionType = "array"
)

// Option declares one flag. Default must match Type: string, bool, int or
// []string; nil selects the zero value.
type Option struct {
	Name    string
	Alias   string
	Type    OptionType
	Default any
	Usage   string
}

func validateOptions(opts []Option) error {
	seen := make(map[string]bool, len(opts)*2)
	for _, o := range opts {
		if o.Name == "" {
			return fmt.Errorf("option with empty name")
		}
		if o.Name == "help" || o.Alias == "h" {
			return fmt.Errorf("option %q clashes with the built-in help flag", o.Name)
		}
		for _, key := range []string{o.Name, o.Alias} {
			if key == "" {
				continue
			}
			if seen[key] {
				return fmt.Errorf("duplicate option %q", key)
			}
			seen[key] = true
		}
		if _, err := o.DefaultValue(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultValue returns Default converted to the Go type matching Type.
func (o Option) DefaultValue() (any, error) {
	switch o.Type {
	case TypeString, "":
		if o.Default == nil {
			return "", nil
		}
		if v, ok := o.Default.(string); ok {
			return v, nil
		}
	case TypeBool:
		if o.Default == nil {
			return false, nil
		}
		if v, ok := o.Default.(bool); ok {
			return v, nil
		}
	case TypeInt:
		switch v := o.Default.(type) {
		case nil:
			return 0, nil
		case int:
			return v, nil
		case int64:
			return int(v), nil
		}
	case TypeArray:
		switch v := o.Default.(type) {
		case nil:
			return []string(nil), nil
		case []string:
			return v, nil
		case string:
			return []string{v}, nil
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("option %q: array default must hold strings, got %T", o.Name, item)
				}
				out = append(out, s)
			}
			return out, nil
		}
	default:
		return nil, fmt.Errorf("option %q: unknown type %q", o.Name, o.Type)
	}
	return nil, fmt.Errorf("option %q: default %v (%T) does not match type %s", o.Name, o.Default, o.Default, o.Type)
}

// Args are the parsed arguments handed to a runner. The command token has
// already been consumed from Positionals.
type Args struct {
	Positionals []string
	Values      map[string]any
}

// String returns the string value of option name.
func (a Args) String(name string) string {
	v, _ := a.Values[name].(string)
	return v
}

// Bool returns the bool value of option name.
func (a Args) Bool(name string) bool {
	v, _ := a.Values[name].(bool)
	return v
}

// Int returns the int value of option name.
func (a Args) Int(name string) int {
	v, _ := a.Values[name].(int)
	return v
}

// Strings returns the values of array option name.
func (a Args) Strings(name string) []string {
	v, _ := a.Values[name].([]string)
	return v
}

// Env renders the option values as NAME=value pairs with the given prefix.
// Option names are upper-cased with '-' mapped to '_'; arrays are joined with
// commas. The result is sorted.
func (a Args) Env(prefix string) []string {
	env := make([]string, 0, len(a.Values))
	for name, value := range a.Values {
		key := prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case bool:
			s = strconv.FormatBool(v)
		case int:
			s = strconv.Itoa(v)
		case []string:
			s = strings.Join(v, ",")
		default:
			s = fmt.Sprint(v)
		}
		env = append(env, key+"="+s)
	}
	sort.Strings(env)
	return env
}
