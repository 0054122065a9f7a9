package gates

import (
	"fmt"
	"math"

	"github.com/aretw0/gensyn/pkg/domain"
)

// Class names of the built-in gates.
const (
	ClassOutput    = domain.OutputGateClass
	ClassInput     = "Simple_Input"
	ClassLFO       = "Simple_LFO"
	ClassSineWave  = "Sine_Wave"
	ClassAdder     = "Adder"
	ClassAmplifier = "Simple_Amplifier"
)

// AdderInputs is the number of input ports on an Adder.
const AdderInputs = 8

// Catalog returns every built-in gate type, output first.
func Catalog() []domain.GateType {
	return []domain.GateType{
		Output(),
		Input(),
		LFO(),
		SineWave(),
		Adder(),
		Amplifier(),
	}
}

// Output is the symbolic receiver of the waveform. It passes its input through.
func Output() domain.GateType {
	return domain.OutputGateType()
}

// Input provides a static value.
func Input() domain.GateType {
	return domain.GateType{
		Class:       ClassInput,
		Description: "Provides a simple, static value.",
		Outputs:     []string{domain.DefaultOutputPort},
		Params:      []domain.ParamSpec{{Name: "value", Default: 0.5}},
		Process: func(ctx domain.ProcessContext, _ [][]float32, out []float32) {
			v := float32(ctx.Param("value"))
			for i := range out {
				out[i] = v
			}
		},
	}
}

// LFO provides a low-frequency sine oscillation.
func LFO() domain.GateType {
	return domain.GateType{
		Class:       ClassLFO,
		Description: "Provides simple, low-frequency oscillation as input.",
		Outputs:     []string{domain.DefaultOutputPort},
		Params: []domain.ParamSpec{
			{Name: "hz", Default: 0.5},
			{Name: "max", Default: 1.0},
		},
		Process: func(ctx domain.ProcessContext, _ [][]float32, out []float32) {
			hz := ctx.Param("hz")
			amp := clamp(ctx.Param("max"), 0, 1)
			for i := range out {
				t := float64(ctx.Frame0+uint64(i)) / ctx.SampleRate
				out[i] = float32(math.Sin(2*math.Pi*t*hz) * amp)
			}
		},
	}
}

// SineWave oscillates at the frequency carried by its pitch input.
// Without a pitch input it is silent.
func SineWave() domain.GateType {
	return domain.GateType{
		Class:       ClassSineWave,
		Description: "Outputs a simple sine wave.",
		Inputs:      []string{"pitch", "velocity", "phase"},
		Outputs:     []string{domain.DefaultOutputPort},
		Process: func(ctx domain.ProcessContext, in [][]float32, out []float32) {
			pitch, velocity, phase := in[0], in[1], in[2]
			if pitch == nil {
				return
			}
			for i := range out {
				t := float64(ctx.Frame0+uint64(i)) / ctx.SampleRate
				cycles := PitchToHz(pitch[i]) * t
				if phase != nil {
					cycles += float64(phase[i])
				}
				v := math.Sin(2 * math.Pi * cycles)
				if velocity != nil {
					v *= float64(velocity[i])
				}
				out[i] = float32(v)
			}
		},
	}
}

// Adder sums its connected inputs, optionally normalizing by the block peak.
func Adder() domain.GateType {
	inputs := make([]string, AdderInputs)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("input%d", i)
	}
	return domain.GateType{
		Class:       ClassAdder,
		Description: "Takes multiple gates and adds their output together. The output can be normalized.",
		Inputs:      inputs,
		Outputs:     []string{domain.DefaultOutputPort},
		Params:      []domain.ParamSpec{{Name: "normalize", Default: 0}},
		Process: func(ctx domain.ProcessContext, in [][]float32, out []float32) {
			var peak float64
			for i := range out {
				var sum float32
				for _, buf := range in {
					if buf != nil {
						sum += buf[i]
					}
				}
				out[i] = sum
				peak = math.Max(peak, math.Abs(float64(sum)))
			}
			if peak > 0 && ctx.Param("normalize") > 0.5 {
				for i := range out {
					out[i] = float32(float64(out[i]) / peak)
				}
			}
		},
	}
}

// Amplifier scales its input by volume and clips to [-1, 1].
func Amplifier() domain.GateType {
	return domain.GateType{
		Class:       ClassAmplifier,
		Description: "Amplifies or lessens the incoming source by scaling it. Amplitudes are clipped.",
		Inputs:      []string{"input"},
		Outputs:     []string{domain.DefaultOutputPort},
		Params:      []domain.ParamSpec{{Name: "volume", Default: 1.0}},
		Process: func(ctx domain.ProcessContext, in [][]float32, out []float32) {
			if in[0] == nil {
				return
			}
			volume := ctx.Param("volume")
			for i := range out {
				out[i] = float32(clamp(float64(in[0][i])*volume, -1, 1))
			}
		},
	}
}
