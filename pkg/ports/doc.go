/*
Package ports defines the driven ports (interfaces) of the questionnaire engine.

These interfaces decouple the pure engine from external implementations, so the same
core runs behind the CLI, the HTTP API and the MCP server with any storage backend.

# Key Interfaces

  - FlowLoader: retrieves the flow document (e.g., from a file or memory).
  - SessionStore: persists and loads questionnaire sessions.
  - DistributedLocker: serializes session access across replicas.
  - Engine: the facade adapters drive (progress, prune, validate, summary).
*/
package ports
