package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGateAdd    EventType = "gate_add"
	EventGateRemove EventType = "gate_remove"
	EventConnect    EventType = "connect"
	EventDisconnect EventType = "disconnect"
	EventEvaluate   EventType = "evaluate"
	EventLoadState  EventType = "load_state"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GateEvent represents a gate entering or leaving the registry.
type GateEvent struct {
	EventBase
	Name  string `json:"name"`
	Class string `json:"class,omitempty"`
}

// ConnectionEvent represents an edge being added or removed.
type ConnectionEvent struct {
	EventBase
	Connection Connection `json:"connection"`
}

// EvaluateEvent represents one evaluation pass.
type EvaluateEvent struct {
	EventBase
	Step     uint64        `json:"step"`
	Frames   int           `json:"frames"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// StateEvent represents a bulk state replacement.
type StateEvent struct {
	EventBase
	Gates       int `json:"gates"`
	Connections int `json:"connections"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the calling goroutine after the operation succeeded.
// OnEvaluate is the exception: it also fires for failed passes, with Err set.
type LifecycleHooks struct {
	OnGateAdd    func(context.Context, *GateEvent)
	OnGateRemove func(context.Context, *GateEvent)
	OnConnect    func(context.Context, *ConnectionEvent)
	OnDisconnect func(context.Context, *ConnectionEvent)
	OnEvaluate   func(context.Context, *EvaluateEvent)
	OnLoadState  func(context.Context, *StateEvent)
}
