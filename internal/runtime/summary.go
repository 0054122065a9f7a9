package runtime

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/gensyn/pkg/domain"
)

// Summary renders a human-readable description of a gate: identity, type,
// the edges on each port and every parameter.
func (g *Graph) Summary(name string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	gt, err := g.lookup("summary", name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", gt.name)
	fmt.Fprintf(&b, "Class: %s\n", gt.typ.Class)
	fmt.Fprintf(&b, "Type: %s\n", gt.typ.Kind())
	fmt.Fprintf(&b, "Description: %s\n", gt.typ.Description)

	b.WriteString("Inputs:")
	if len(gt.typ.Inputs) == 0 {
		b.WriteString(" none")
	}
	b.WriteString("\n")
	for _, port := range gt.typ.Inputs {
		if e, ok := g.inbound[name][port]; ok {
			fmt.Fprintf(&b, "    %s <- %s.%s\n", port, e.From, e.FromPort)
		} else {
			fmt.Fprintf(&b, "    %s\n", port)
		}
	}

	b.WriteString("Outputs:")
	if len(gt.typ.Outputs) == 0 {
		b.WriteString(" none")
	}
	b.WriteString("\n")
	for _, port := range gt.typ.Outputs {
		fmt.Fprintf(&b, "    %s", port)
		for _, e := range g.outgoing(name, port) {
			fmt.Fprintf(&b, " -> %s.%s", e.To, e.ToPort)
		}
		b.WriteString("\n")
	}

	b.WriteString("Parameters:")
	if len(gt.typ.Params) == 0 && len(gt.params) == 0 {
		b.WriteString(" none")
	}
	b.WriteString("\n")
	for _, spec := range gt.typ.Params {
		b.WriteString(gt.paramLine(spec.Name, false))
	}
	for _, extra := range gt.unrecognized() {
		b.WriteString(gt.paramLine(extra, true))
	}
	return b.String(), nil
}

// outgoing lists the edges leaving a port, ordered by sink creation then input position.
func (g *Graph) outgoing(name, port string) []domain.Connection {
	var edges []domain.Connection
	for _, e := range g.outbound[name] {
		if e.FromPort == port {
			edges = append(edges, e)
		}
	}
	slices.SortFunc(edges, func(x, y domain.Connection) int {
		if d := g.position(x.To) - g.position(y.To); d != 0 {
			return d
		}
		return g.gates[x.To].typ.InputIndex(x.ToPort) - g.gates[y.To].typ.InputIndex(y.ToPort)
	})
	return edges
}

func (gt *gate) unrecognized() []string {
	var names []string
	for n := range gt.params {
		if _, ok := gt.typ.Param(n); !ok {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

func (gt *gate) paramLine(name string, unrecognized bool) string {
	var flags []string
	if unrecognized {
		flags = append(flags, "unrecognized")
	}

	value := fmt.Sprintf("%f", gt.defaultParam(name))
	if raw, ok := gt.params[name]; ok {
		if v, err := parseParam(raw); err == nil {
			value = fmt.Sprintf("%f", v)
		} else {
			value = fmt.Sprintf("%q", raw)
			flags = append(flags, "invalid")
		}
	}

	if len(flags) == 0 {
		return fmt.Sprintf("    %s : %s\n", name, value)
	}
	return fmt.Sprintf("    %s : %s (%s)\n", name, value, strings.Join(flags, ", "))
}
