package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cristianoliveira/repokit/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spec(name string, code int) *command.Spec {
	return &command.Spec{
		CommandName: name,
		RunFunc: func(context.Context, command.Args) (int, error) {
			return code, nil
		},
	}
}

func TestRegisterLookup(t *testing.T) {
	r := New()
	for i, name := range []string{"docs", "build-dist", "lint"} {
		require.NoError(t, r.Register(spec(name, i+10), SourceBuiltin))
	}

	for i, name := range []string{"docs", "build-dist", "lint"} {
		run, ok := r.Lookup(name)
		require.True(t, ok, name)
		code, err := run(context.Background(), command.Args{})
		require.NoError(t, err)
		assert.Equal(t, i+10, code, "lookup for %s must return that descriptor's runner", name)
	}

	_, ok := r.Lookup("frobnicate")
	assert.False(t, ok)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"docs", "build-dist", "lint"}, r.Names())
}

func TestRegisterCollisionNeverOverwrites(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(spec("docs", 1), SourceBuiltin))

	err := r.Register(spec("docs", 2), "/bin/repokit-docs.toml")

	var collision *CollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "docs", collision.Name)
	assert.Equal(t, "/bin/repokit-docs.toml", collision.Source)
	assert.Equal(t, SourceBuiltin, collision.ExistingSource)
	assert.Contains(t, err.Error(), "collides")

	run, _ := r.Lookup("docs")
	code, _ := run(context.Background(), command.Args{})
	assert.Equal(t, 1, code, "first registration must survive")
	assert.Equal(t, SourceBuiltin, r.Source("docs"))
	assert.Equal(t, 1, r.Len())
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()
	err := r.Register(&command.Spec{CommandName: ""}, SourceBuiltin)
	assert.True(t, errors.Is(err, command.ErrInvalid))
	assert.Zero(t, r.Len())
}

func TestFreeze(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(spec("docs", 0), SourceBuiltin))
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register(spec("lint", 0), SourceBuiltin), ErrFrozen)
	_, ok := r.Lookup("docs")
	assert.True(t, ok)
}

func TestDescriptorsPreserveOrder(t *testing.T) {
	r := New()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Register(spec(fmt.Sprintf("cmd-%d", 4-i), 0), "m.toml"))
	}

	var names []string
	for _, d := range r.Descriptors() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"cmd-4", "cmd-3", "cmd-2", "cmd-1", "cmd-0"}, names)

	d, ok := r.Descriptor("cmd-2")
	require.True(t, ok)
	assert.Equal(t, "cmd-2", d.Name())
	assert.Equal(t, "m.toml", r.Source("cmd-2"))
	assert.Empty(t, r.Source("missing"))
}
