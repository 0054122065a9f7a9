package runtime_test

import (
	"testing"

	"github.com/aretw0/gensyn/internal/runtime"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/gates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraph(t *testing.T, opts ...runtime.Option) *runtime.Graph {
	t.Helper()
	opts = append([]runtime.Option{runtime.WithGateTypes(gates.Catalog()...)}, opts...)
	g, err := runtime.New(opts...)
	require.NoError(t, err)
	return g
}

func TestNew_StartsWithOutput(t *testing.T) {
	g := newGraph(t)
	assert.Equal(t, []string{domain.OutputGateName}, g.List())

	class, err := g.Class(domain.OutputGateName)
	require.NoError(t, err)
	assert.Equal(t, domain.OutputGateClass, class)
}

func TestNew_RegistersOutputTypeWithoutCatalog(t *testing.T) {
	g, err := runtime.New()
	require.NoError(t, err)
	assert.Equal(t, []string{domain.OutputGateName}, g.List())
	require.Len(t, g.Types(), 1)
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := runtime.New(runtime.WithSampleRate(0))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = runtime.New(runtime.WithGateTypes(gates.Input(), gates.Input()))
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = runtime.New(runtime.WithGateTypes(domain.GateType{}))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAdd(t *testing.T) {
	g := newGraph(t)

	require.NoError(t, g.Add(gates.ClassLFO, "lfo"))
	class, err := g.Class("lfo")
	require.NoError(t, err)
	assert.Equal(t, gates.ClassLFO, class)

	tests := []struct {
		name  string
		class string
		gate  string
		kind  error
	}{
		{"empty type", "", "x", domain.ErrInvalidArgument},
		{"empty name", gates.ClassLFO, "", domain.ErrInvalidArgument},
		{"whitespace in name", gates.ClassLFO, "a b", domain.ErrInvalidArgument},
		{"duplicate", gates.ClassInput, "lfo", domain.ErrDuplicateName},
		{"duplicate beats unknown type", "Nope", "lfo", domain.ErrDuplicateName},
		{"unknown type", "Nope", "x", domain.ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Add(tt.class, tt.gate)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, []string{"output", "lfo"}, g.List())
		})
	}
}

func TestRemove(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Add(gates.ClassInput, "in"))
	require.NoError(t, g.Add(gates.ClassAmplifier, "amp"))
	_, err := g.Connect("in", "amp", "out")
	require.NoError(t, err)
	_, err = g.Connect("amp", "output", "out")
	require.NoError(t, err)

	removed, existed := g.Remove("amp")
	assert.True(t, existed)
	assert.Len(t, removed, 2)

	assert.ErrorIs(t, g.Check("amp"), domain.ErrNotFound)
	assert.Equal(t, 0, g.EdgeCount())

	summary, err := g.Summary("in")
	require.NoError(t, err)
	assert.NotContains(t, summary, "amp")

	_, existed = g.Remove("amp")
	assert.False(t, existed, "remove is idempotent")
}

func TestRemove_OutputIsAllowed(t *testing.T) {
	g := newGraph(t)
	_, existed := g.Remove(domain.OutputGateName)
	assert.True(t, existed)
	assert.Empty(t, g.List())

	_, err := g.Evaluate(0, 16)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_CreationOrder(t *testing.T) {
	g := newGraph(t)
	for _, n := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, g.Add(gates.ClassInput, n))
	}
	g.Remove("alpha")
	require.NoError(t, g.Add(gates.ClassInput, "alpha"))

	assert.Equal(t, []string{"output", "zeta", "mid", "alpha"}, g.List())
}

func TestParams(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Add(gates.ClassLFO, "lfo"))

	require.NoError(t, g.SetParam("lfo", "x", "3.5"))
	v, err := g.GetParam("lfo", "x")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = g.GetParam("lfo", "hz")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v, "unset declared parameter yields its default")

	v, err = g.GetParam("lfo", "never")
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, g.SetParam("lfo", "hz", "fast"))
	_, err = g.GetParam("lfo", "hz")
	assert.ErrorIs(t, err, domain.ErrParseError)

	require.NoError(t, g.SetParam("lfo", "max", "NaN"))
	_, err = g.GetParam("lfo", "max")
	assert.ErrorIs(t, err, domain.ErrParseError)

	assert.ErrorIs(t, g.SetParam("lfo", "", "1"), domain.ErrInvalidArgument)
	assert.ErrorIs(t, g.SetParam("ghost", "x", "1"), domain.ErrNotFound)
	_, err = g.GetParam("ghost", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
