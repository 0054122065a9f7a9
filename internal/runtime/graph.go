package runtime

import (
	"sync"

	"github.com/aretw0/gensyn/pkg/domain"
)

// DefaultSampleRate is used when no sample rate is configured.
const DefaultSampleRate = 44100

// gate is a registered node. Adjacency lives in the Graph indexes, never here.
type gate struct {
	name   string
	typ    domain.GateType
	params map[string]string
}

// Graph is the registry, connection graph and parameter storage of one engine.
type Graph struct {
	mu sync.RWMutex

	catalog    map[string]domain.GateType
	classes    []string
	sampleRate float64

	gates map[string]*gate
	order []string

	// inbound[sink][inputPort] is the single edge feeding that port.
	inbound map[string]map[string]domain.Connection
	// outbound[source] lists the edges leaving a gate, in creation order.
	outbound map[string][]domain.Connection
}

// Option configures a Graph.
type Option func(*config)

type config struct {
	types      []domain.GateType
	sampleRate float64
}

// WithGateTypes registers gate types in the catalog, in order.
func WithGateTypes(types ...domain.GateType) Option {
	return func(c *config) {
		c.types = append(c.types, types...)
	}
}

// WithSampleRate sets the sample rate handed to processors.
func WithSampleRate(hz float64) Option {
	return func(c *config) {
		c.sampleRate = hz
	}
}

// New builds a graph whose registry already holds the output gate.
// The output type is registered automatically unless a type with the same
// class was supplied.
func New(opts ...Option) (*Graph, error) {
	cfg := config{sampleRate: DefaultSampleRate}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, domain.NewError("new", "", domain.ErrInvalidArgument, "sample rate must be positive, got %v", cfg.sampleRate)
	}

	g := &Graph{
		catalog:    make(map[string]domain.GateType),
		sampleRate: cfg.sampleRate,
	}
	g.reset()

	for _, t := range cfg.types {
		if err := g.register(t); err != nil {
			return nil, err
		}
	}
	if _, ok := g.catalog[domain.OutputGateClass]; !ok {
		if err := g.register(domain.OutputGateType()); err != nil {
			return nil, err
		}
	}

	if err := g.add(domain.OutputGateClass, domain.OutputGateName); err != nil {
		return nil, err
	}
	return g, nil
}

// SampleRate returns the sample rate in Hz.
func (g *Graph) SampleRate() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sampleRate
}

func (g *Graph) reset() {
	g.gates = make(map[string]*gate)
	g.order = nil
	g.inbound = make(map[string]map[string]domain.Connection)
	g.outbound = make(map[string][]domain.Connection)
}

// fork returns an empty graph sharing the catalog and sample rate.
// The catalog is never mutated after New, so sharing is safe.
func (g *Graph) fork() *Graph {
	f := &Graph{
		catalog:    g.catalog,
		classes:    g.classes,
		sampleRate: g.sampleRate,
	}
	f.reset()
	return f
}

// position returns the creation index of a gate, used for deterministic ordering.
func (g *Graph) position(name string) int {
	for i, n := range g.order {
		if n == name {
			return i
		}
	}
	return -1
}
