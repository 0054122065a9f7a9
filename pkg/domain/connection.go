package domain

import (
	"fmt"
	"strings"
)

// Direction tells which end of a new edge the declaring gate sits on.
type Direction string

const (
	// DirectionOut means the declaring gate is the source of the edge.
	DirectionOut Direction = "out"
	// DirectionIn means the declaring gate is the sink of the edge.
	DirectionIn Direction = "in"
)

// Role is the parsed form of the role tag passed to connect.
// Port names the sink's input port; empty selects the first free input.
type Role struct {
	Direction Direction
	Port      string
}

// ParseRole parses a role tag: "out", "in", "source", "sink",
// optionally followed by ":<input port>".
func ParseRole(tag string) (Role, error) {
	head, port, hasPort := strings.Cut(strings.TrimSpace(tag), ":")
	if hasPort && port == "" {
		return Role{}, fmt.Errorf("%w: %q has an empty port", ErrInvalidRole, tag)
	}

	var dir Direction
	switch head {
	case "out", "source":
		dir = DirectionOut
	case "in", "sink":
		dir = DirectionIn
	default:
		return Role{}, fmt.Errorf("%w: %q (expected out[:port] or in[:port])", ErrInvalidRole, tag)
	}
	return Role{Direction: dir, Port: port}, nil
}

func (r Role) String() string {
	if r.Port == "" {
		return string(r.Direction)
	}
	return string(r.Direction) + ":" + r.Port
}

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	From     string `json:"from" yaml:"from" mapstructure:"from"`
	FromPort string `json:"from_port" yaml:"from_port" mapstructure:"from_port"`
	To       string `json:"to" yaml:"to" mapstructure:"to"`
	ToPort   string `json:"to_port" yaml:"to_port" mapstructure:"to_port"`
}

// Touches reports whether the edge has the named gate at either end.
func (c Connection) Touches(name string) bool {
	return c.From == name || c.To == name
}

// SourceRole is the role tag the source gate would use to declare this edge.
func (c Connection) SourceRole() string {
	return Role{Direction: DirectionOut, Port: c.ToPort}.String()
}

func (c Connection) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", c.From, c.FromPort, c.To, c.ToPort)
}
