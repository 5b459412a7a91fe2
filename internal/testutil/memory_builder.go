package testutil

import (
	"time"

	"github.com/animus-ai/animus/core"
)

// MemoryBuilder provides a fluent helper for constructing memories in tests.
// Example:
//
//	m := NewMemoryBuilder().Room("room-1").Text("hello").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MemoryBuilder struct {
	id        string
	entityID  string
	agentID   string
	roomID    string
	content   core.Content
	createdAt time.Time
}

// NewMemoryBuilder creates a builder with default entity "user" and room "room".
func NewMemoryBuilder() *MemoryBuilder {
	return &MemoryBuilder{entityID: "user", roomID: "room", createdAt: time.Now().UTC()}
}

// ID overrides the auto-generated memory ID (chainable).
func (b *MemoryBuilder) ID(id string) *MemoryBuilder { b.id = id; return b }

// Entity sets the producing entity ID (chainable).
func (b *MemoryBuilder) Entity(id string) *MemoryBuilder { b.entityID = id; return b }

// Agent sets the agent ID (chainable).
func (b *MemoryBuilder) Agent(id string) *MemoryBuilder { b.agentID = id; return b }

// Room sets the room ID (chainable).
func (b *MemoryBuilder) Room(id string) *MemoryBuilder { b.roomID = id; return b }

// Text sets the content text (chainable).
func (b *MemoryBuilder) Text(t string) *MemoryBuilder { b.content.Text = t; return b }

// Thought sets the content thought (chainable).
func (b *MemoryBuilder) Thought(t string) *MemoryBuilder { b.content.Thought = t; return b }

// Actions sets the content actions (chainable).
func (b *MemoryBuilder) Actions(a ...string) *MemoryBuilder { b.content.Actions = a; return b }

// At sets the creation time (chainable). Use for deterministic ordering.
func (b *MemoryBuilder) At(t time.Time) *MemoryBuilder { b.createdAt = t; return b }

// Build materializes the memory.
func (b *MemoryBuilder) Build() *core.Memory {
	id := b.id
	if id == "" {
		id = core.NewID()
	}
	return &core.Memory{
		ID:        id,
		EntityID:  b.entityID,
		AgentID:   b.agentID,
		RoomID:    b.roomID,
		Content:   b.content,
		CreatedAt: b.createdAt,
	}
}
