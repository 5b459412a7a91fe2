// Package memory provides the built-in in-memory implementation of
// core.MemoryStore. Suitable for tests, examples and ephemeral agents; swap
// in a database backed store for durable deployments.
package memory
