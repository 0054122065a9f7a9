package domain

// GateKind classifies a gate by the ports its type declares.
type GateKind string

const (
	// KindInput only provides output to other gates.
	KindInput GateKind = "InputGate"
	// KindOutput only consumes input from other gates.
	KindOutput GateKind = "OutputGate"
	// KindTransform consumes input and provides output.
	KindTransform GateKind = "TransformGate"
	// KindInert has neither inputs nor outputs.
	KindInert GateKind = "InertGate"
)

// OutputGateName is the well-known gate that receives the final waveform.
const OutputGateName = "output"

// OutputGateClass is the type of the well-known output gate.
const OutputGateClass = "GenSyn_Output"

// DefaultOutputPort is the output port name used by single-output gate types.
const DefaultOutputPort = "out"

// ParamSpec declares a parameter recognized by a gate type.
type ParamSpec struct {
	Name    string  `json:"name" yaml:"name"`
	Default float64 `json:"default" yaml:"default"`
}

// ProcessContext carries everything a gate needs to compute one block.
type ProcessContext struct {
	// SampleRate in Hz.
	SampleRate float64
	// Step is the index of the evaluation pass.
	Step uint64
	// Frame0 is the absolute index of the first frame in the block.
	Frame0 uint64
	// Param reads a parameter, falling back to the type default.
	Param func(name string) float64
}

// ProcessFunc computes a gate's output block.
// inputs holds one buffer per declared input port, in declaration order;
// unconnected ports are nil and must not be modified. out has the block length
// and starts zeroed.
type ProcessFunc func(ctx ProcessContext, inputs [][]float32, out []float32)

// GateType describes a kind of gate that can be instantiated by class name.
type GateType struct {
	Class       string      `json:"class" yaml:"class"`
	Description string      `json:"description" yaml:"description"`
	Inputs      []string    `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []string    `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Params      []ParamSpec `json:"params,omitempty" yaml:"params,omitempty"`

	// Process is nil for structural gates, which pass their first connected input through.
	Process ProcessFunc `json:"-" yaml:"-"`
}

// Kind derives the gate classification from the declared ports.
func (t GateType) Kind() GateKind {
	switch {
	case len(t.Inputs) == 0 && len(t.Outputs) > 0:
		return KindInput
	case len(t.Inputs) > 0 && len(t.Outputs) == 0:
		return KindOutput
	case len(t.Inputs) > 0 && len(t.Outputs) > 0:
		return KindTransform
	}
	return KindInert
}

// Param returns the spec for a declared parameter.
func (t GateType) Param(name string) (ParamSpec, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// InputIndex returns the position of a declared input port, or -1.
func (t GateType) InputIndex(port string) int {
	for i, p := range t.Inputs {
		if p == port {
			return i
		}
	}
	return -1
}

// HasOutput reports whether the type declares the given output port.
func (t GateType) HasOutput(port string) bool {
	for _, p := range t.Outputs {
		if p == port {
			return true
		}
	}
	return false
}

// OutputGateType is the structural type of the well-known output gate.
// It has a single input and passes it through.
func OutputGateType() GateType {
	return GateType{
		Class:       OutputGateClass,
		Description: "Acts as the symbolic receiver of the waveform. The received waveform is passed to the device as raw audio, so this is the endpoint of the synth.",
		Inputs:      []string{"waveform"},
	}
}
