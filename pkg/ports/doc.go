/*
Package ports defines the driven ports (interfaces) used by conform.

These interfaces decouple schema resolution from storage, so the registry and
its HTTP and MCP front-ends work the same over memory, files or Redis.

# Key Interfaces

  - SchemaStore: persists schema documents by name.

RunSchemaStoreContract verifies an adapter against the expected behavior.
*/
package ports
