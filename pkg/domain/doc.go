/*
Package domain contains the core domain models for the GenSyn engine.

It defines the vocabulary shared by the runtime, the adapters and the public API:
gate type descriptors, connections, snapshots and the error taxonomy. This package is
kept pure and free of external dependencies like I/O or persistence.

# Key Entities

  - GateType: Describes a kind of gate (ports, parameters and its processing function).
  - Connection: A directed edge from a gate's output port to another gate's input port.
  - Snapshot: A self-describing document holding every gate and connection of a graph.
  - GateError: A typed failure that unwraps to one of the Err* kinds.
*/
package domain
