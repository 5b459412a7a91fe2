// Package core provides the foundational domain types and interfaces used by
// animus. It defines the core abstractions for:
//
//   - Characters (declarative persona definitions loaded from JSON/YAML)
//   - Plugins (named capability units with dependency declarations)
//   - Memories (stored messages and facts scoped to rooms and entities)
//   - Model handlers (streaming text generation keyed by model type)
//   - Runtime events (lifecycle + message notifications with typed payloads)
//   - Pluggable stores for memories, rooms and attachments
//
// The package intentionally keeps implementation concerns (persistence,
// runtime orchestration, model providers) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
