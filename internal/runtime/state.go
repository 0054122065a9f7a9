package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/gensyn/pkg/domain"
)

// SaveState captures every gate, its raw parameters and every edge.
// Gates appear in creation order and edges grouped by sink.
func (g *Graph) SaveState() *domain.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	snap := &domain.Snapshot{
		Version:     domain.SnapshotVersion,
		SampleRate:  g.sampleRate,
		Gates:       make([]domain.GateState, 0, len(g.order)),
		Connections: []domain.ConnectionState{},
	}
	for _, name := range g.order {
		gt := g.gates[name]
		state := domain.GateState{Name: name, Type: gt.typ.Class}
		if len(gt.params) > 0 {
			state.Params = make(map[string]string, len(gt.params))
			for k, v := range gt.params {
				state.Params[k] = v
			}
		}
		snap.Gates = append(snap.Gates, state)
	}
	for _, c := range g.connections() {
		snap.Connections = append(snap.Connections, domain.ConnectionState{Connection: c, Role: c.SourceRole()})
	}
	return snap
}

// LoadState replaces the whole graph with the snapshot contents.
// The snapshot is rebuilt into a scratch graph first; on any problem the current
// graph is kept and a SchemaError listing every reason is returned.
//
// The output gate is restored only when the snapshot lists it. A snapshot taken
// after output was removed loads without it, and Evaluate then fails with
// ErrNotFound until a gate named output is added again.
func (g *Graph) LoadState(snap *domain.Snapshot) error {
	if snap == nil {
		return domain.NewError("load_state", "", domain.ErrSchemaError, "snapshot is nil")
	}

	g.mu.RLock()
	scratch := g.fork()
	g.mu.RUnlock()

	if reasons := scratch.restore(snap); len(reasons) > 0 {
		return domain.NewError("load_state", "", domain.ErrSchemaError, "%s", strings.Join(reasons, "; "))
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates = scratch.gates
	g.order = scratch.order
	g.inbound = scratch.inbound
	g.outbound = scratch.outbound
	if snap.SampleRate > 0 {
		g.sampleRate = snap.SampleRate
	}
	return nil
}

// restore applies a snapshot to an empty graph and collects every failure.
func (g *Graph) restore(snap *domain.Snapshot) []string {
	var reasons []string
	fail := func(format string, args ...any) {
		reasons = append(reasons, fmt.Sprintf(format, args...))
	}

	if snap.Version != 0 && snap.Version != domain.SnapshotVersion {
		fail("unsupported version %d", snap.Version)
		return reasons
	}
	if snap.SampleRate < 0 {
		fail("sample_rate must not be negative")
	}

	for i, gs := range snap.Gates {
		if err := g.add(gs.Type, gs.Name); err != nil {
			fail("gates[%d]: %v", i, err)
			continue
		}
		for k, v := range gs.Params {
			if k == "" {
				fail("gates[%d]: empty parameter name", i)
				continue
			}
			g.gates[gs.Name].params[k] = v
		}
	}

	for i, cs := range snap.Connections {
		if cs.Role != "" {
			if _, err := domain.ParseRole(cs.Role); err != nil {
				fail("connections[%d]: %v", i, err)
				continue
			}
		}
		c := cs.Connection
		if _, ok := g.gates[c.From]; !ok {
			fail("connections[%d]: unknown source gate %q", i, c.From)
			continue
		}
		if _, ok := g.gates[c.To]; !ok {
			fail("connections[%d]: unknown sink gate %q", i, c.To)
			continue
		}
		if c.From == c.To {
			fail("connections[%d]: %s is a self loop", i, c)
			continue
		}
		// Hand-written patches may leave ports implicit.
		if c.FromPort == "" && len(g.gates[c.From].typ.Outputs) > 0 {
			c.FromPort = g.gates[c.From].typ.Outputs[0]
		}
		if c.ToPort == "" {
			c.ToPort = g.freeInput(g.gates[c.To])
		}
		if _, err := g.link("load_state", c.From, c); err != nil {
			fail("connections[%d]: %v", i, err)
		}
	}
	return reasons
}
