package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/gensyn/pkg/adapters/memory"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/ports"
	"github.com/aretw0/gensyn/pkg/schema"
)

// Builder manages the patch construction.
type Builder struct {
	sampleRate float64
	gates      map[string]*GateBuilder
	order      []string
	conns      []domain.ConnectionState
}

// New creates a new patch builder. The output gate is always present.
func New() *Builder {
	b := &Builder{gates: make(map[string]*GateBuilder)}
	b.Gate(domain.OutputGateName, domain.OutputGateClass)
	return b
}

// SampleRate records a sample rate in the built snapshot.
func (b *Builder) SampleRate(hz float64) *Builder {
	b.sampleRate = hz
	return b
}

// Gate declares a gate of the given class.
// If the gate already exists, it returns the existing builder.
func (b *Builder) Gate(name, class string) *GateBuilder {
	if gb, ok := b.gates[name]; ok {
		return gb
	}
	gb := &GateBuilder{
		state:   domain.GateState{Name: name, Type: class},
		builder: b,
	}
	b.gates[name] = gb
	b.order = append(b.order, name)
	return gb
}

// Connect declares an edge between two gates with an explicit role, as typed at the REPL.
func (b *Builder) Connect(a, other, role string) *Builder {
	r, err := domain.ParseRole(role)
	if err != nil {
		// Keep the raw role so Build reports it.
		b.conns = append(b.conns, domain.ConnectionState{
			Connection: domain.Connection{From: a, To: other},
			Role:       role,
		})
		return b
	}
	c := domain.Connection{From: a, To: other, ToPort: r.Port}
	if r.Direction == domain.DirectionIn {
		c = domain.Connection{From: other, To: a, ToPort: r.Port}
	}
	b.conns = append(b.conns, domain.ConnectionState{Connection: c})
	return b
}

// Build compiles the patch into a snapshot.
func (b *Builder) Build() (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		Version:     domain.SnapshotVersion,
		SampleRate:  b.sampleRate,
		Gates:       make([]domain.GateState, 0, len(b.order)),
		Connections: append([]domain.ConnectionState{}, b.conns...),
	}
	for _, name := range b.order {
		snap.Gates = append(snap.Gates, b.gates[name].state)
	}

	if err := schema.Validate(snap); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaError, err)
	}
	return snap.Clone(), nil
}

// Apply builds the patch and loads it into an engine, replacing its graph.
func (b *Builder) Apply(ctx context.Context, eng ports.GateEngine) error {
	snap, err := b.Build()
	if err != nil {
		return err
	}
	return eng.LoadState(ctx, snap)
}

// Store builds the patch and returns an in-memory patch store holding it under id.
func (b *Builder) Store(id string) (*memory.Store, error) {
	snap, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory store: %w", err)
	}
	return memory.NewFromSnapshots(map[string]*domain.Snapshot{id: snap}), nil
}
