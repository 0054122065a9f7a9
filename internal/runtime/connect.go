package runtime

import (
	"slices"

	"github.com/aretw0/gensyn/pkg/domain"
)

// Connect declares an edge between a and b. role is given from a's perspective:
// "out[:port]" makes a the source feeding b, "in[:port]" makes b the source feeding a.
// port names the sink input; without it the first free input is used.
//
// The graph is left untouched when Connect fails.
func (g *Graph) Connect(a, b, role string) (domain.Connection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connectRole("connect", a, b, role)
}

func (g *Graph) connectRole(op, a, b, tag string) (domain.Connection, error) {
	role, err := domain.ParseRole(tag)
	if err != nil {
		return domain.Connection{}, roleError(op, a, tag)
	}
	src, dst, err := g.endpoints(op, a, b, role)
	if err != nil {
		return domain.Connection{}, err
	}
	if src.name == dst.name {
		return domain.Connection{}, domain.NewError(op, a, domain.ErrCycleDetected, "a gate cannot be connected to itself")
	}

	// Without an explicit port any existing edge between the pair counts as the same edge.
	for _, e := range g.outbound[src.name] {
		if e.To == dst.name && (role.Port == "" || role.Port == e.ToPort) {
			return domain.Connection{}, domain.NewError(op, a, domain.ErrDuplicateEdge, "%s already exists", e)
		}
	}

	if len(src.typ.Outputs) == 0 {
		return domain.Connection{}, domain.NewError(op, a, domain.ErrPortMismatch, "%s (%s) has no output port", src.name, src.typ.Class)
	}
	toPort := role.Port
	if toPort == "" {
		toPort = g.freeInput(dst)
		if toPort == "" {
			return domain.Connection{}, domain.NewError(op, a, domain.ErrPortMismatch, "%s (%s) has no free input port", dst.name, dst.typ.Class)
		}
	}

	return g.link(op, a, domain.Connection{
		From:     src.name,
		FromPort: src.typ.Outputs[0],
		To:       dst.name,
		ToPort:   toPort,
	})
}

func roleError(op, gate, tag string) error {
	return domain.NewError(op, gate, domain.ErrInvalidRole, "%q (expected out[:port] or in[:port])", tag)
}

// link validates ports and acyclicity for a fully specified edge, then inserts it.
func (g *Graph) link(op, subject string, c domain.Connection) (domain.Connection, error) {
	src, dst := g.gates[c.From], g.gates[c.To]
	if !src.typ.HasOutput(c.FromPort) {
		return domain.Connection{}, domain.NewError(op, subject, domain.ErrPortMismatch, "%s (%s) has no output port %q", src.name, src.typ.Class, c.FromPort)
	}
	if dst.typ.InputIndex(c.ToPort) < 0 {
		return domain.Connection{}, domain.NewError(op, subject, domain.ErrPortMismatch, "%s (%s) has no input port %q", dst.name, dst.typ.Class, c.ToPort)
	}
	if existing, ok := g.inbound[c.To][c.ToPort]; ok {
		return domain.Connection{}, domain.NewError(op, subject, domain.ErrPortMismatch, "input %s.%s is already fed by %s", c.To, c.ToPort, existing.From)
	}
	if g.reaches(c.To, c.From) {
		return domain.Connection{}, domain.NewError(op, subject, domain.ErrCycleDetected, "%s would close a loop back to %s", c, c.From)
	}

	if g.inbound[c.To] == nil {
		g.inbound[c.To] = make(map[string]domain.Connection)
	}
	g.inbound[c.To][c.ToPort] = c
	g.outbound[c.From] = append(g.outbound[c.From], c)
	return c, nil
}

// endpoints resolves source and sink for a role, failing with NotFound on either end.
func (g *Graph) endpoints(op, a, b string, role domain.Role) (src, dst *gate, err error) {
	ga, err := g.lookup(op, a)
	if err != nil {
		return nil, nil, err
	}
	gb, err := g.lookup(op, b)
	if err != nil {
		return nil, nil, err
	}
	if role.Direction == domain.DirectionIn {
		return gb, ga, nil
	}
	return ga, gb, nil
}

func (g *Graph) freeInput(dst *gate) string {
	for _, port := range dst.typ.Inputs {
		if _, taken := g.inbound[dst.name][port]; !taken {
			return port
		}
	}
	return ""
}

// reaches reports whether there is a directed path from one gate to another.
func (g *Graph) reaches(from, to string) bool {
	seen := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		for _, e := range g.outbound[n] {
			stack = append(stack, e.To)
		}
	}
	return false
}

// Disconnect removes the edge a Connect call with the same arguments would declare.
// Without a port, the first edge between the pair is removed.
func (g *Graph) Disconnect(a, b, tag string) (domain.Connection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	role, err := domain.ParseRole(tag)
	if err != nil {
		return domain.Connection{}, roleError("disconnect", a, tag)
	}
	src, dst, err := g.endpoints("disconnect", a, b, role)
	if err != nil {
		return domain.Connection{}, err
	}
	for _, e := range g.outbound[src.name] {
		if e.To == dst.name && (role.Port == "" || role.Port == e.ToPort) {
			g.unlink(e)
			return e, nil
		}
	}
	return domain.Connection{}, domain.NewError("disconnect", a, domain.ErrNotFound, "%s does not feed %s", src.name, dst.name)
}

// DisconnectAll removes every edge touching the gate and returns them.
func (g *Graph) DisconnectAll(name string) []domain.Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disconnectAll(name)
}

func (g *Graph) disconnectAll(name string) []domain.Connection {
	var removed []domain.Connection
	for _, e := range g.inboundOf(name) {
		g.unlink(e)
		removed = append(removed, e)
	}
	for _, e := range slices.Clone(g.outbound[name]) {
		g.unlink(e)
		removed = append(removed, e)
	}
	return removed
}

func (g *Graph) unlink(c domain.Connection) {
	delete(g.inbound[c.To], c.ToPort)
	if len(g.inbound[c.To]) == 0 {
		delete(g.inbound, c.To)
	}
	g.outbound[c.From] = slices.DeleteFunc(g.outbound[c.From], func(e domain.Connection) bool { return e == c })
	if len(g.outbound[c.From]) == 0 {
		delete(g.outbound, c.From)
	}
}

// Inputs returns the edges feeding a gate, in input port declaration order.
func (g *Graph) Inputs(name string) ([]domain.Connection, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, err := g.lookup("inputs", name); err != nil {
		return nil, err
	}
	return g.inboundOf(name), nil
}

// Outputs returns the edges leaving a gate, in creation order.
func (g *Graph) Outputs(name string) ([]domain.Connection, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, err := g.lookup("outputs", name); err != nil {
		return nil, err
	}
	return slices.Clone(g.outbound[name]), nil
}

func (g *Graph) inboundOf(name string) []domain.Connection {
	gt, ok := g.gates[name]
	if !ok {
		return nil
	}
	var edges []domain.Connection
	for _, port := range gt.typ.Inputs {
		if e, ok := g.inbound[name][port]; ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// Connections returns every edge, grouped by sink in gate creation order.
func (g *Graph) Connections() []domain.Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connections()
}

func (g *Graph) connections() []domain.Connection {
	var edges []domain.Connection
	for _, name := range g.order {
		edges = append(edges, g.inboundOf(name)...)
	}
	return edges
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, ports := range g.inbound {
		n += len(ports)
	}
	return n
}
