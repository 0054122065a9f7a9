package gensyn

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/gensyn/internal/runtime"
	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/aretw0/gensyn/pkg/gates"
	"github.com/aretw0/gensyn/pkg/ports"
)

// DefaultBlockSize is the number of frames rendered per block by hosts that do not choose one.
const DefaultBlockSize = 256

// Engine is the high-level entry point for the GenSyn library.
// It wraps the graph core with lifecycle hooks, logging and a render cursor.
type Engine struct {
	graph      *runtime.Graph
	types      []domain.GateType
	builtins   bool
	sampleRate float64
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	cursor     atomic.Uint64
	Name       string
}

var _ ports.GateEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGateTypes registers additional gate types next to the built-in catalog.
func WithGateTypes(types ...domain.GateType) Option {
	return func(e *Engine) {
		e.types = append(e.types, types...)
	}
}

// WithoutBuiltins starts the catalog empty except for the output gate type.
func WithoutBuiltins() Option {
	return func(e *Engine) {
		e.builtins = false
	}
}

// WithSampleRate sets the sample rate in Hz (default 44100).
func WithSampleRate(hz float64) Option {
	return func(e *Engine) {
		e.sampleRate = hz
	}
}

// WithName labels the engine, e.g. with the patch it was loaded from.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes an engine whose graph holds only the output gate.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		builtins:   true,
		sampleRate: runtime.DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("patch", eng.Name)
	}

	var types []domain.GateType
	if eng.builtins {
		types = append(types, gates.Catalog()...)
	}
	types = append(types, eng.types...)

	graph, err := runtime.New(
		runtime.WithGateTypes(types...),
		runtime.WithSampleRate(eng.sampleRate),
	)
	if err != nil {
		return nil, err
	}
	eng.graph = graph
	return eng, nil
}

// Open creates an engine and loads the patch stored under id.
func Open(ctx context.Context, loader ports.PatchLoader, id string, opts ...Option) (*Engine, error) {
	snap, err := loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	eng, err := New(append([]Option{WithName(id)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := eng.LoadState(ctx, snap); err != nil {
		return nil, err
	}
	return eng, nil
}

// Add creates a gate and returns a handle to it.
func (e *Engine) Add(ctx context.Context, class, name string) (*Gate, error) {
	if err := e.graph.Add(class, name); err != nil {
		return nil, err
	}
	e.logger.Debug("gate added", "gate", name, "class", class)
	if e.hooks.OnGateAdd != nil {
		e.hooks.OnGateAdd(ctx, &domain.GateEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventGateAdd},
			Name:      name,
			Class:     class,
		})
	}
	return &Gate{engine: e, name: name, class: class}, nil
}

// AddGate creates a gate without returning a handle.
func (e *Engine) AddGate(ctx context.Context, class, name string) error {
	_, err := e.Add(ctx, class, name)
	return err
}

// Gate returns a handle to an existing gate.
func (e *Engine) Gate(name string) (*Gate, error) {
	class, err := e.graph.Class(name)
	if err != nil {
		return nil, err
	}
	return &Gate{engine: e, name: name, class: class}, nil
}

// Output returns the well-known output gate.
func (e *Engine) Output() (*Gate, error) {
	return e.Gate(domain.OutputGateName)
}

// CheckGate fails with domain.ErrNotFound when name does not refer to a gate.
func (e *Engine) CheckGate(_ context.Context, name string) error {
	return e.graph.Check(name)
}

// RemoveGate severs every edge of the gate and deletes it. Unknown names are ignored.
func (e *Engine) RemoveGate(ctx context.Context, name string) error {
	class, _ := e.graph.Class(name)
	removed, existed := e.graph.Remove(name)
	if !existed {
		return nil
	}
	e.logger.Debug("gate removed", "gate", name, "edges", len(removed))
	for _, c := range removed {
		e.emitConnection(ctx, e.hooks.OnDisconnect, domain.EventDisconnect, c)
	}
	if e.hooks.OnGateRemove != nil {
		e.hooks.OnGateRemove(ctx, &domain.GateEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventGateRemove},
			Name:      name,
			Class:     class,
		})
	}
	return nil
}

// GateSummary renders a human-readable description of a gate.
func (e *Engine) GateSummary(_ context.Context, name string) (string, error) {
	return e.graph.Summary(name)
}

// ListGates returns the gate names in creation order.
func (e *Engine) ListGates(_ context.Context) []string {
	return e.graph.List()
}

// Connect declares an edge between a and b, with role given from a's perspective.
func (e *Engine) Connect(ctx context.Context, a, b, role string) (domain.Connection, error) {
	c, err := e.graph.Connect(a, b, role)
	if err != nil {
		return c, err
	}
	e.logger.Debug("gates connected", "edge", c.String())
	e.emitConnection(ctx, e.hooks.OnConnect, domain.EventConnect, c)
	return c, nil
}

// Disconnect removes the edge a Connect call with the same arguments would declare.
func (e *Engine) Disconnect(ctx context.Context, a, b, role string) (domain.Connection, error) {
	c, err := e.graph.Disconnect(a, b, role)
	if err != nil {
		return c, err
	}
	e.logger.Debug("gates disconnected", "edge", c.String())
	e.emitConnection(ctx, e.hooks.OnDisconnect, domain.EventDisconnect, c)
	return c, nil
}

func (e *Engine) emitConnection(ctx context.Context, hook func(context.Context, *domain.ConnectionEvent), typ domain.EventType, c domain.Connection) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.ConnectionEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: typ},
		Connection: c,
	})
}

// SetParam stores a raw parameter value on a gate.
func (e *Engine) SetParam(_ context.Context, gate, param, value string) error {
	return e.graph.SetParam(gate, param, value)
}

// GetParam parses a parameter, falling back to the type default when unset.
func (e *Engine) GetParam(_ context.Context, gate, param string) (float64, error) {
	return e.graph.GetParam(gate, param)
}

// Types lists the registered gate types in registration order.
func (e *Engine) Types(_ context.Context) []domain.GateType {
	return e.graph.Types()
}

// Inputs lists the edges feeding a gate.
func (e *Engine) Inputs(name string) ([]domain.Connection, error) {
	return e.graph.Inputs(name)
}

// Connections lists every edge in the graph.
func (e *Engine) Connections() []domain.Connection {
	return e.graph.Connections()
}

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 {
	return e.graph.SampleRate()
}

// SaveState snapshots every gate, parameter and edge.
func (e *Engine) SaveState(_ context.Context) (*domain.Snapshot, error) {
	return e.graph.SaveState(), nil
}

// LoadState atomically replaces the graph with a snapshot and rewinds the render cursor.
// Gates missing from the snapshot are gone afterwards, output included: a snapshot
// without an output gate loads, but Render fails with domain.ErrNotFound until one is added.
func (e *Engine) LoadState(ctx context.Context, snap *domain.Snapshot) error {
	if err := e.graph.LoadState(snap); err != nil {
		return err
	}
	e.cursor.Store(0)
	e.logger.Debug("state loaded", "gates", len(snap.Gates), "connections", len(snap.Connections))
	if e.hooks.OnLoadState != nil {
		e.hooks.OnLoadState(ctx, &domain.StateEvent{
			EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventLoadState},
			Gates:       len(snap.Gates),
			Connections: len(snap.Connections),
		})
	}
	return nil
}
