package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/gensyn"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/gates"
	"github.com/aretw0/gensyn/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimplePatch(t *testing.T) {
	b := New()
	b.Gate("lfo", gates.ClassLFO).Set("hz", 2.5).To("amp", "input")
	b.Gate("amp", gates.ClassAmplifier).Set("volume", "0.8").ToOutput()

	snap, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"output", "lfo", "amp"}, snap.GateNames())
	assert.Equal(t, "2.5", snap.Gates[1].Params["hz"])
	assert.Equal(t, "0.8", snap.Gates[2].Params["volume"])
	require.Len(t, snap.Connections, 2)
	assert.Equal(t, domain.Connection{From: "lfo", To: "amp", ToPort: "input"}, snap.Connections[0].Connection)
	assert.Equal(t, domain.Connection{From: "amp", To: "output"}, snap.Connections[1].Connection)
}

func TestBuilder_GateIsIdempotent(t *testing.T) {
	b := New()
	first := b.Gate("x", gates.ClassInput)
	second := b.Gate("x", gates.ClassLFO)
	assert.Same(t, first, second)
}

func TestBuilder_ConnectRoles(t *testing.T) {
	b := New()
	b.Gate("a", gates.ClassInput)
	b.Gate("amp", gates.ClassAmplifier)
	b.Connect("amp", "a", "in:input")
	b.Connect("amp", "output", "out")

	snap, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, domain.Connection{From: "a", To: "amp", ToPort: "input"}, snap.Connections[0].Connection)
	assert.Equal(t, domain.Connection{From: "amp", To: "output"}, snap.Connections[1].Connection)
}

func TestBuilder_InvalidRole(t *testing.T) {
	b := New()
	b.Gate("a", gates.ClassInput)
	b.Connect("a", "output", "sideways")

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaError)

	verrs := schema.ValidationErrors(err)
	require.Len(t, verrs, 1)
	var verr *schema.ValidationError
	require.ErrorAs(t, verrs[0], &verr)
	assert.Equal(t, "connections[0].role", verr.Key)
}

func TestBuilder_Apply(t *testing.T) {
	ctx := context.Background()
	eng, err := gensyn.New(gensyn.WithSampleRate(100))
	require.NoError(t, err)

	b := New()
	b.Gate("dc", gates.ClassInput).Set("value", 0.75).ToOutput()
	require.NoError(t, b.Apply(ctx, eng))

	assert.Equal(t, []string{"output", "dc"}, eng.ListGates(ctx))
	out, err := eng.Evaluate(ctx, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.75, 0.75, 0.75, 0.75}, out)
}

func TestBuilder_ApplyUnknownClass(t *testing.T) {
	ctx := context.Background()
	eng, err := gensyn.New()
	require.NoError(t, err)
	require.NoError(t, eng.AddGate(ctx, gates.ClassInput, "keep"))

	b := New()
	b.Gate("x", "No_Such_Gate")
	err = b.Apply(ctx, eng)
	assert.True(t, errors.Is(err, domain.ErrSchemaError))
	assert.Equal(t, []string{"output", "keep"}, eng.ListGates(ctx), "failed apply keeps the graph")
}

func TestBuilder_Store(t *testing.T) {
	b := New().SampleRate(22050)
	b.Gate("dc", gates.ClassInput).ToOutput()

	store, err := b.Store("demo")
	require.NoError(t, err)

	snap, err := store.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, 22050.0, snap.SampleRate)
	assert.Len(t, snap.Gates, 2)
}
