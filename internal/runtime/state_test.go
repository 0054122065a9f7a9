package runtime_test

import (
	"sync"
	"testing"

	"github.com/aretw0/gensyn/internal/runtime"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/gates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPatch(t *testing.T, g *runtime.Graph) {
	t.Helper()
	require.NoError(t, g.Add(gates.ClassLFO, "lfo"))
	require.NoError(t, g.Add(gates.ClassInput, "vel"))
	require.NoError(t, g.Add(gates.ClassSineWave, "sine"))
	require.NoError(t, g.Add(gates.ClassAmplifier, "amp"))
	require.NoError(t, g.SetParam("lfo", "hz", "0.25"))
	require.NoError(t, g.SetParam("amp", "volume", "bogus"))
	require.NoError(t, g.SetParam("sine", "extra", "1"))
	for _, c := range []struct{ a, b, role string }{
		{"lfo", "sine", "out"},
		{"sine", "vel", "in:velocity"},
		{"sine", "amp", "out"},
		{"output", "amp", "in"},
	} {
		_, err := g.Connect(c.a, c.b, c.role)
		require.NoError(t, err)
	}
}

func summaries(t *testing.T, g *runtime.Graph) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, n := range g.List() {
		s, err := g.Summary(n)
		require.NoError(t, err)
		out[n] = s
	}
	return out
}

func TestState_RoundTrip(t *testing.T) {
	src := newGraph(t)
	buildPatch(t, src)
	snap := src.SaveState()

	assert.Equal(t, domain.SnapshotVersion, snap.Version)
	assert.Equal(t, []string{"output", "lfo", "vel", "sine", "amp"}, snap.GateNames())
	require.Len(t, snap.Connections, 4)
	assert.Equal(t, "out:pitch", snap.Connections[1].Role)

	dst := newGraph(t)
	require.NoError(t, dst.LoadState(snap))

	assert.Equal(t, src.List(), dst.List())
	assert.Equal(t, summaries(t, src), summaries(t, dst))

	a, err := src.Evaluate(2, 32)
	require.NoError(t, err)
	b, err := dst.Evaluate(2, 32)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadState_FailureKeepsPriorState(t *testing.T) {
	g := newGraph(t)
	buildPatch(t, g)
	before := summaries(t, g)

	bad := &domain.Snapshot{
		Gates: []domain.GateState{
			{Name: "a", Type: gates.ClassInput},
			{Name: "a", Type: gates.ClassInput},
			{Name: "b", Type: "Missing"},
		},
		Connections: []domain.ConnectionState{
			{Connection: domain.Connection{From: "a", To: "ghost"}},
			{Connection: domain.Connection{From: "a", To: "a"}},
		},
	}
	err := g.LoadState(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaError)
	assert.Contains(t, err.Error(), "gates[1]")
	assert.Contains(t, err.Error(), "gates[2]")
	assert.Contains(t, err.Error(), "connections[0]")
	assert.Contains(t, err.Error(), "connections[1]")

	assert.Equal(t, before, summaries(t, g))
}

func TestLoadState_Rejects(t *testing.T) {
	tests := []struct {
		name string
		snap *domain.Snapshot
	}{
		{"nil", nil},
		{"future version", &domain.Snapshot{Version: 99}},
		{"cycle", &domain.Snapshot{
			Gates: []domain.GateState{{Name: "a", Type: gates.ClassAmplifier}, {Name: "b", Type: gates.ClassAmplifier}},
			Connections: []domain.ConnectionState{
				{Connection: domain.Connection{From: "a", To: "b"}},
				{Connection: domain.Connection{From: "b", To: "a"}},
			},
		}},
		{"bad role", &domain.Snapshot{
			Gates:       []domain.GateState{{Name: "a", Type: gates.ClassInput}, {Name: "output", Type: domain.OutputGateClass}},
			Connections: []domain.ConnectionState{{Connection: domain.Connection{From: "a", To: "output"}, Role: "up"}},
		}},
		{"wrong port", &domain.Snapshot{
			Gates:       []domain.GateState{{Name: "a", Type: gates.ClassInput}, {Name: "output", Type: domain.OutputGateClass}},
			Connections: []domain.ConnectionState{{Connection: domain.Connection{From: "a", FromPort: "out", To: "output", ToPort: "nope"}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t)
			err := g.LoadState(tt.snap)
			assert.ErrorIs(t, err, domain.ErrSchemaError)
			assert.Equal(t, []string{domain.OutputGateName}, g.List())
		})
	}
}

func TestLoadState_ImplicitPortsAndReplace(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Add(gates.ClassInput, "stale"))

	err := g.LoadState(&domain.Snapshot{
		SampleRate: 22050,
		Gates: []domain.GateState{
			{Name: "output", Type: domain.OutputGateClass},
			{Name: "in", Type: gates.ClassInput, Params: map[string]string{"value": "0.5"}},
		},
		Connections: []domain.ConnectionState{{Connection: domain.Connection{From: "in", To: "output"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"output", "in"}, g.List())
	assert.Equal(t, float64(22050), g.SampleRate())
	out, err := g.Evaluate(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, out)
}

func TestLoadState_WithoutOutput(t *testing.T) {
	g, err := runtime.New(runtime.WithGateTypes(gates.Catalog()...))
	require.NoError(t, err)
	require.NoError(t, g.Add(gates.ClassInput, "dc"))
	_, existed := g.Remove(domain.OutputGateName)
	require.True(t, existed)

	snap := g.SaveState()
	assert.Equal(t, []string{"dc"}, snap.GateNames())

	restored, err := runtime.New(runtime.WithGateTypes(gates.Catalog()...))
	require.NoError(t, err)
	require.NoError(t, restored.LoadState(snap))
	assert.Equal(t, []string{"dc"}, restored.List())

	_, err = restored.Evaluate(0, 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, restored.Add(gates.ClassOutput, domain.OutputGateName))
	_, err = restored.Evaluate(0, 8)
	assert.NoError(t, err)
}

func TestGraph_ConcurrentAccess(t *testing.T) {
	g := newGraph(t)
	buildPatch(t, g)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = g.SetParam("lfo", "hz", "1")
				_, _ = g.Connect("vel", "amp", "out")
				g.Remove("vel")
				_ = g.Add(gates.ClassInput, "vel")
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = g.Evaluate(uint64(j), 16)
				_ = g.SaveState()
				_ = g.List()
			}
		}()
	}
	wg.Wait()

	for _, c := range g.Connections() {
		assert.NoError(t, g.Check(c.From))
		assert.NoError(t, g.Check(c.To))
	}
}
