package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context, args map[string]any) Result {
	return Success("ok")
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(
		Definition{Name: "alpha", Handler: noop},
		Definition{Name: "beta", Handler: noop},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"alpha", "beta"}, reg.Names())

	def, ok := reg.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, "alpha", def.Name)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{"empty name", []Definition{{Handler: noop}}},
		{"nil handler", []Definition{{Name: "x"}}},
		{"duplicate name", []Definition{{Name: "x", Handler: noop}, {Name: "x", Handler: noop}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs...)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_AllPreservesOrder(t *testing.T) {
	reg, err := NewRegistry(
		Definition{Name: "c", Handler: noop},
		Definition{Name: "a", Handler: noop},
		Definition{Name: "b", Handler: noop},
	)
	require.NoError(t, err)

	var names []string
	for _, def := range reg.All() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestResultVariants(t *testing.T) {
	ok := Successf("created %s", "ev1")
	assert.False(t, ok.Failed)
	assert.Equal(t, "created ev1", ok.Text)

	bad := Failuref("store said: %v", assert.AnError)
	assert.True(t, bad.Failed)
	assert.Contains(t, bad.Text, assert.AnError.Error())
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"summary":    "Standup",
		"maxResults": float64(7),
		"count":      3,
	}

	assert.Equal(t, "Standup", StringArg(args, "summary"))
	assert.Equal(t, "", StringArg(args, "missing"))
	assert.Equal(t, 7, IntArg(args, "maxResults", 5))
	assert.Equal(t, 3, IntArg(args, "count", 5))
	assert.Equal(t, 5, IntArg(args, "missing", 5))
	assert.Equal(t, 5, IntArg(map[string]any{"maxResults": "x"}, "maxResults", 5))
}
