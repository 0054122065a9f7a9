package gates

import (
	"math"
	"testing"

	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWith(params map[string]float64) domain.ProcessContext {
	return domain.ProcessContext{
		SampleRate: 8,
		Param: func(name string) float64 {
			return params[name]
		},
	}
}

func TestCatalog_UniqueClasses(t *testing.T) {
	seen := map[string]bool{}
	for _, gt := range Catalog() {
		require.NotEmpty(t, gt.Class)
		assert.False(t, seen[gt.Class], "duplicate class %s", gt.Class)
		seen[gt.Class] = true
	}
	assert.Equal(t, ClassOutput, Catalog()[0].Class)
	assert.Equal(t, domain.KindOutput, Output().Kind())
	assert.Equal(t, domain.KindInput, Input().Kind())
	assert.Equal(t, domain.KindTransform, Adder().Kind())
}

func TestInput_FillsValue(t *testing.T) {
	out := make([]float32, 4)
	Input().Process(ctxWith(map[string]float64{"value": 0.25}), nil, out)
	assert.Equal(t, []float32{0.25, 0.25, 0.25, 0.25}, out)
}

func TestAdder_SumAndNormalize(t *testing.T) {
	in := make([][]float32, AdderInputs)
	in[0] = []float32{1, 2}
	in[3] = []float32{1, -6}

	out := make([]float32, 2)
	Adder().Process(ctxWith(nil), in, out)
	assert.Equal(t, []float32{2, -4}, out)

	out = make([]float32, 2)
	Adder().Process(ctxWith(map[string]float64{"normalize": 1}), in, out)
	assert.Equal(t, []float32{0.5, -1}, out)
}

func TestAmplifier_Clips(t *testing.T) {
	out := make([]float32, 3)
	Amplifier().Process(ctxWith(map[string]float64{"volume": 2}), [][]float32{{0.25, 0.75, -0.9}}, out)
	assert.Equal(t, []float32{0.5, 1, -1}, out)

	silent := make([]float32, 3)
	Amplifier().Process(ctxWith(map[string]float64{"volume": 2}), [][]float32{nil}, silent)
	assert.Equal(t, []float32{0, 0, 0}, silent)
}

func TestLFO_QuarterCycle(t *testing.T) {
	ctx := ctxWith(map[string]float64{"hz": 2, "max": 5})
	out := make([]float32, 2)
	LFO().Process(ctx, nil, out)

	// 2 Hz at 8 Hz sample rate: frame 1 is a quarter cycle; max is clamped to 1.
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 1, out[1], 1e-6)
}

func TestSineWave_SilentWithoutPitch(t *testing.T) {
	out := make([]float32, 4)
	SineWave().Process(ctxWith(nil), [][]float32{nil, nil, nil}, out)
	assert.Equal(t, []float32{0, 0, 0, 0}, out)
}

func TestSineWave_FollowsPitch(t *testing.T) {
	pitch := HzToPitch(2)
	in := [][]float32{{pitch, pitch}, {0.5, 0.5}, nil}
	out := make([]float32, 2)

	ctx := ctxWith(nil)
	ctx.Frame0 = 1
	SineWave().Process(ctx, in, out)

	want := 0.5 * math.Sin(2*math.Pi*PitchToHz(pitch)/8)
	assert.InDelta(t, want, out[0], 1e-5)
}

func TestPitchMapping(t *testing.T) {
	assert.InDelta(t, MinPitchHz, PitchToHz(0), 1e-9)
	assert.InDelta(t, MaxPitchHz, PitchToHz(1), 1e-3)
	assert.InDelta(t, 440, PitchToHz(HzToPitch(440)), 1e-2)
}
