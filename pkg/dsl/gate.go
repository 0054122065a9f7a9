package dsl

import (
	"fmt"
	"strconv"

	"github.com/aretw0/gensyn/pkg/domain"
)

// GateBuilder provides a fluent API for configuring a gate.
type GateBuilder struct {
	state   domain.GateState
	builder *Builder
}

// Name returns the gate name.
func (g *GateBuilder) Name() string {
	return g.state.Name
}

// Set stores a parameter. Numbers are formatted in their shortest form;
// strings are kept verbatim, malformed or not.
func (g *GateBuilder) Set(param string, value any) *GateBuilder {
	if g.state.Params == nil {
		g.state.Params = make(map[string]string)
	}
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case float64:
		raw = strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		raw = strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int:
		raw = strconv.Itoa(v)
	default:
		raw = fmt.Sprint(v)
	}
	g.state.Params[param] = raw
	return g
}

// To feeds this gate's first output into an input of sink.
// An empty port picks the first free input when the patch is loaded.
func (g *GateBuilder) To(sink, port string) *GateBuilder {
	g.builder.conns = append(g.builder.conns, domain.ConnectionState{
		Connection: domain.Connection{From: g.state.Name, To: sink, ToPort: port},
	})
	return g
}

// ToOutput feeds this gate into the output gate.
func (g *GateBuilder) ToOutput() *GateBuilder {
	return g.To(domain.OutputGateName, "")
}

// From feeds source's first output into the named input of this gate.
func (g *GateBuilder) From(source, port string) *GateBuilder {
	g.builder.conns = append(g.builder.conns, domain.ConnectionState{
		Connection: domain.Connection{From: source, To: g.state.Name, ToPort: port},
	})
	return g
}

// Gate returns to the patch builder to declare another gate.
func (g *GateBuilder) Gate(name, class string) *GateBuilder {
	return g.builder.Gate(name, class)
}
