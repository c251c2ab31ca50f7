package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okRunner(context.Context, Args) (int, error) { return 0, nil }

func TestSpecRun(t *testing.T) {
	var got Args
	s := &Spec{CommandName: "docs", RunFunc: func(_ context.Context, a Args) (int, error) {
		got = a
		return 3, nil
	}}

	code, err := s.Run(context.Background(), Args{Positionals: []string{"src"}})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, []string{"src"}, got.Positionals)

	code, err = (&Spec{CommandName: "empty"}).Run(context.Background(), Args{})
	assert.Error(t, err)
	assert.Equal(t, 1, code)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		wantErr string
	}{
		{name: "valid", d: &Spec{CommandName: "build-dist", RunFunc: okRunner}},
		{name: "nil", d: nil, wantErr: "nil descriptor"},
		{name: "empty name", d: &Spec{RunFunc: okRunner}, wantErr: "empty name"},
		{name: "spaces", d: &Spec{CommandName: "build dist", RunFunc: okRunner}, wantErr: "single word"},
		{name: "flag-like", d: &Spec{CommandName: "--docs", RunFunc: okRunner}, wantErr: "single word"},
		{name: "reserved help", d: &Spec{CommandName: "help", RunFunc: okRunner}, wantErr: "reserved"},
		{name: "no runner", d: &Spec{CommandName: "docs"}, wantErr: "no runner"},
		{
			name:    "duplicate option",
			d:       &Spec{CommandName: "docs", RunFunc: okRunner, Flags: []Option{{Name: "out", Alias: "o"}, {Name: "only", Alias: "o"}}},
			wantErr: `duplicate option "o"`,
		},
		{
			name:    "help clash",
			d:       &Spec{CommandName: "docs", RunFunc: okRunner, Flags: []Option{{Name: "help"}}},
			wantErr: "help flag",
		},
		{
			name:    "mistyped default",
			d:       &Spec{CommandName: "docs", RunFunc: okRunner, Flags: []Option{{Name: "limit", Type: TypeInt, Default: "ten"}}},
			wantErr: "does not match type int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.d)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUse(t *testing.T) {
	assert.Equal(t, "docs", Use(&Spec{CommandName: "docs"}))
	assert.Equal(t, "docs [root]", Use(&Spec{CommandName: "docs", Pattern: "docs [root]"}))
	assert.Equal(t, "lint [paths..]", Use(&Spec{CommandName: "lint", Pattern: "[paths..]"}))
	assert.Equal(t, "lint", Use(&Spec{CommandName: "lint", Pattern: "   "}))
}

func TestDefaultValue(t *testing.T) {
	tests := []struct {
		opt  Option
		want any
	}{
		{opt: Option{Name: "s"}, want: ""},
		{opt: Option{Name: "s", Type: TypeString, Default: "x"}, want: "x"},
		{opt: Option{Name: "b", Type: TypeBool}, want: false},
		{opt: Option{Name: "b", Type: TypeBool, Default: true}, want: true},
		{opt: Option{Name: "i", Type: TypeInt, Default: int64(5)}, want: 5},
		{opt: Option{Name: "a", Type: TypeArray, Default: []any{"x", "y"}}, want: []string{"x", "y"}},
		{opt: Option{Name: "a", Type: TypeArray, Default: "x"}, want: []string{"x"}},
	}
	for _, tt := range tests {
		got, err := tt.opt.DefaultValue()
		require.NoError(t, err, tt.opt.Name)
		assert.Equal(t, tt.want, got, tt.opt.Name)
	}

	_, err := Option{Name: "a", Type: TypeArray, Default: []any{1}}.DefaultValue()
	assert.Error(t, err)
	_, err = Option{Name: "x", Type: "float"}.DefaultValue()
	assert.ErrorContains(t, err, "unknown type")
}

func TestArgsAccessorsAndEnv(t *testing.T) {
	a := Args{Values: map[string]any{
		"config":       "typedoc.json",
		"prefer-index": true,
		"limit":        20,
		"include":      []string{"**/*.ts", "**/*.tsx"},
	}}

	assert.Equal(t, "typedoc.json", a.String("config"))
	assert.True(t, a.Bool("prefer-index"))
	assert.Equal(t, 20, a.Int("limit"))
	assert.Equal(t, []string{"**/*.ts", "**/*.tsx"}, a.Strings("include"))
	assert.Empty(t, a.String("missing"))
	assert.False(t, a.Bool("config"))

	assert.Equal(t, []string{
		"OPT_CONFIG=typedoc.json",
		"OPT_INCLUDE=**/*.ts,**/*.tsx",
		"OPT_LIMIT=20",
		"OPT_PREFER_INDEX=true",
	}, a.Env("OPT_"))
}
