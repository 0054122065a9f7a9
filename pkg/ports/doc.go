/*
Package ports defines the driving and driven ports (interfaces) of the GenSyn engine.

These interfaces decouple the graph core from the surfaces that drive it and from the
backends that keep patches around between runs.

# Key Interfaces

  - GateEngine: the typed operation set every adapter (command host, HTTP, MCP) drives.
  - PatchLoader: read-only access to saved patches (e.g., a Loam vault).
  - PatchStore: durable patch persistence (Memory, File, Redis).
  - DistributedLocker: distributed locking for concurrent patch edits across replicas.
*/
package ports
