package gensyn

import (
	"context"

	"github.com/aretw0/gensyn/pkg/domain"
)

// Gate is a handle to a registered gate. It carries only the gate's identity;
// every call goes through the engine, so a handle to a removed gate fails with
// domain.ErrNotFound.
type Gate struct {
	engine *Engine
	name   string
	class  string
}

// Name returns the gate's unique name.
func (g *Gate) Name() string { return g.name }

// Class returns the gate's type class.
func (g *Gate) Class() string { return g.class }

// Connect wires this gate to other. role is this gate's side of the edge:
// "out" feeds other, "in" is fed by other; ":<port>" names the input port.
func (g *Gate) Connect(ctx context.Context, role string, other *Gate) (domain.Connection, error) {
	if other == nil {
		return domain.Connection{}, nilPeer("connect", g.name)
	}
	return g.engine.Connect(ctx, g.name, other.name, role)
}

// Disconnect removes an edge declared with the same arguments.
func (g *Gate) Disconnect(ctx context.Context, role string, other *Gate) (domain.Connection, error) {
	if other == nil {
		return domain.Connection{}, nilPeer("disconnect", g.name)
	}
	return g.engine.Disconnect(ctx, g.name, other.name, role)
}

func nilPeer(op, name string) error {
	return domain.NewError(op, name, domain.ErrInvalidArgument, "other gate is nil")
}

// SetParam stores a raw parameter value.
func (g *Gate) SetParam(ctx context.Context, param, value string) error {
	return g.engine.SetParam(ctx, g.name, param, value)
}

// Param parses a parameter, falling back to the type default when unset.
func (g *Gate) Param(ctx context.Context, param string) (float64, error) {
	return g.engine.GetParam(ctx, g.name, param)
}

// Summary renders a human-readable description of the gate.
func (g *Gate) Summary(ctx context.Context) (string, error) {
	return g.engine.GateSummary(ctx, g.name)
}

// Remove deletes the gate and all of its edges.
func (g *Gate) Remove(ctx context.Context) error {
	return g.engine.RemoveGate(ctx, g.name)
}
