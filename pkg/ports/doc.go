/*
Package ports defines the interfaces between the Arbor engine and its adapters.

# Key Interfaces

  - TreeBuilder: the engine surface used by driving adapters (HTTP, MCP, CLI).
  - SnapshotStore: persists snapshots of built trees (memory, Redis, bbolt).

RunSnapshotStoreContract is a reusable suite every SnapshotStore adapter runs
from its own tests.
*/
package ports
