package ports

import (
	"context"

	"github.com/aretw0/gensyn/pkg/domain"
)

// GateEngine is the typed operation set of a GenSyn engine, one method per operation.
// Every failure unwraps to one of the domain error kinds.
type GateEngine interface {
	// AddGate creates a gate of the given type class.
	AddGate(ctx context.Context, class, name string) error

	// CheckGate fails with domain.ErrNotFound when name does not refer to a gate.
	CheckGate(ctx context.Context, name string) error

	// RemoveGate severs every edge of a gate and deletes it. Unknown names are ignored.
	RemoveGate(ctx context.Context, name string) error

	// GateSummary renders a human-readable description of a gate.
	GateSummary(ctx context.Context, name string) (string, error)

	// ListGates returns the gate names in creation order.
	ListGates(ctx context.Context) []string

	// Connect declares an edge; role is given from a's perspective ("out[:port]" or "in[:port]").
	Connect(ctx context.Context, a, b, role string) (domain.Connection, error)

	// Disconnect removes an edge declared with the same arguments.
	Disconnect(ctx context.Context, a, b, role string) (domain.Connection, error)

	// SetParam stores a raw parameter value on a gate.
	SetParam(ctx context.Context, gate, param, value string) error

	// GetParam parses a parameter, falling back to the type default when unset.
	GetParam(ctx context.Context, gate, param string) (float64, error)

	// Types lists the registered gate types.
	Types(ctx context.Context) []domain.GateType

	// Evaluate computes one block of the output waveform at the given step.
	Evaluate(ctx context.Context, step uint64, frames int) ([]float32, error)

	// SaveState snapshots every gate, parameter and edge.
	SaveState(ctx context.Context) (*domain.Snapshot, error)

	// LoadState atomically replaces the graph with a snapshot.
	LoadState(ctx context.Context, snap *domain.Snapshot) error
}
