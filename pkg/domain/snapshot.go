package domain

// SnapshotVersion is the current version of the persisted state schema.
const SnapshotVersion = 1

// Snapshot is a complete, self-describing picture of an engine:
// every gate with its parameters and every connection.
type Snapshot struct {
	Version     int               `json:"version" yaml:"version" mapstructure:"version"`
	SampleRate  float64           `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty" mapstructure:"sample_rate"`
	Gates       []GateState       `json:"gates" yaml:"gates" mapstructure:"gates"`
	Connections []ConnectionState `json:"connections" yaml:"connections" mapstructure:"connections"`
}

// GateState is the persisted form of a gate. Parameters keep their raw text
// so malformed values survive a round trip unchanged.
type GateState struct {
	Name   string            `json:"name" yaml:"name" mapstructure:"name"`
	Type   string            `json:"type" yaml:"type" mapstructure:"type"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// ConnectionState is the persisted form of an edge.
type ConnectionState struct {
	Connection `json:",inline" yaml:",inline" mapstructure:",squash"`
	// Role is informational: the tag the source gate would pass to connect.
	Role string `json:"role,omitempty" yaml:"role,omitempty" mapstructure:"role"`
}

// GateNames returns the gate names in document order.
func (s *Snapshot) GateNames() []string {
	names := make([]string, 0, len(s.Gates))
	for _, g := range s.Gates {
		names = append(names, g.Name)
	}
	return names
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Gates = make([]GateState, len(s.Gates))
	for i, g := range s.Gates {
		c.Gates[i] = g
		if g.Params != nil {
			c.Gates[i].Params = make(map[string]string, len(g.Params))
			for k, v := range g.Params {
				c.Gates[i].Params[k] = v
			}
		}
	}
	c.Connections = append([]ConnectionState(nil), s.Connections...)
	return &c
}
