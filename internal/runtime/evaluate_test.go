package runtime_test

import (
	"sync/atomic"
	"testing"

	"github.com/aretw0/gensyn/internal/runtime"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/gates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_SilentWhenUnconnected(t *testing.T) {
	g := newGraph(t)
	out, err := g.Evaluate(0, 4)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0}, out)
}

func TestEvaluate_InvalidFrames(t *testing.T) {
	g := newGraph(t)
	_, err := g.Evaluate(0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestEvaluate_PullsThroughGraph(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Add(gates.ClassInput, "in"))
	require.NoError(t, g.Add(gates.ClassAmplifier, "amp"))
	require.NoError(t, g.SetParam("in", "value", "0.25"))
	require.NoError(t, g.SetParam("amp", "volume", "2"))
	_, err := g.Connect("in", "amp", "out")
	require.NoError(t, err)
	_, err = g.Connect("amp", "output", "out")
	require.NoError(t, err)

	out, err := g.Evaluate(3, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, out)

	// Malformed text evaluates as the default.
	require.NoError(t, g.SetParam("amp", "volume", "loud"))
	out, err = g.Evaluate(3, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.25}, out)
}

func TestEvaluate_Deterministic(t *testing.T) {
	g := newGraph(t)
	require.NoError(t, g.Add(gates.ClassLFO, "lfo"))
	require.NoError(t, g.Add(gates.ClassSineWave, "sine"))
	require.NoError(t, g.SetParam("lfo", "hz", "3"))
	_, err := g.Connect("lfo", "sine", "out")
	require.NoError(t, err)
	_, err = g.Connect("sine", "output", "out")
	require.NoError(t, err)

	a, err := g.Evaluate(7, 64)
	require.NoError(t, err)
	_, err = g.Evaluate(8, 64)
	require.NoError(t, err)
	b, err := g.Evaluate(7, 64)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEvaluate_MemoizesSharedSource(t *testing.T) {
	var calls atomic.Int32
	counter := domain.GateType{
		Class:   "Counter",
		Outputs: []string{"out"},
		Process: func(ctx domain.ProcessContext, _ [][]float32, out []float32) {
			calls.Add(1)
			for i := range out {
				out[i] = 1
			}
		},
	}
	g, err := runtime.New(runtime.WithGateTypes(counter, gates.Adder(), gates.Amplifier()))
	require.NoError(t, err)

	require.NoError(t, g.Add("Counter", "src"))
	require.NoError(t, g.Add(gates.ClassAmplifier, "left"))
	require.NoError(t, g.Add(gates.ClassAmplifier, "right"))
	require.NoError(t, g.Add(gates.ClassAdder, "mix"))
	for _, edge := range [][2]string{{"src", "left"}, {"src", "right"}, {"left", "mix"}, {"right", "mix"}, {"mix", "output"}} {
		_, err := g.Connect(edge[0], edge[1], "out")
		require.NoError(t, err)
	}

	out, err := g.Evaluate(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 2, 2}, out)
	assert.Equal(t, int32(1), calls.Load())

	_, err = g.Evaluate(1, 3)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "cache does not outlive a pass")
}

func TestEvaluate_FrameNumbering(t *testing.T) {
	var frames []uint64
	rateGate := domain.GateType{
		Class:   "FrameCounter",
		Outputs: []string{"out"},
		Process: func(ctx domain.ProcessContext, _ [][]float32, out []float32) {
			frames = append(frames, ctx.Frame0)
			assert.Equal(t, float64(8000), ctx.SampleRate)
		},
	}
	g, err := runtime.New(runtime.WithGateTypes(rateGate), runtime.WithSampleRate(8000))
	require.NoError(t, err)
	require.NoError(t, g.Add("FrameCounter", "p"))
	_, err = g.Connect("p", "output", "out")
	require.NoError(t, err)

	for step := uint64(0); step < 3; step++ {
		_, err := g.Evaluate(step, 256)
		require.NoError(t, err)
	}
	assert.Equal(t, []uint64{0, 256, 512}, frames)
}
