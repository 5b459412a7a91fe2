package core

import (
	"time"

	"github.com/google/uuid"
)

// Content holds the conversational payload of a memory. Text is the
// user-visible body; Thought and Actions are populated from parsed model
// responses. Attachments reference entries in the AttachmentStore.
type Content struct {
	Text        string         `json:"text,omitempty"`
	Source      string         `json:"source,omitempty"`
	Thought     string         `json:"thought,omitempty"`
	Actions     []string       `json:"actions,omitempty"`
	InReplyTo   string         `json:"inReplyTo,omitempty"`
	Attachments []string       `json:"attachments,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Memory is a stored message or fact scoped to a room and the entity that
// produced it. After persistence it should be treated as immutable.
type Memory struct {
	ID        string         `json:"id"`
	EntityID  string         `json:"entityId"`
	AgentID   string         `json:"agentId,omitempty"`
	RoomID    string         `json:"roomId"`
	Content   Content        `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMemory constructs a text memory with a fresh ID and UTC timestamp.
func NewMemory(entityID, roomID, text string) *Memory {
	return &Memory{
		ID:        NewID(),
		EntityID:  entityID,
		RoomID:    roomID,
		Content:   Content{Text: text},
		CreatedAt: time.Now().UTC(),
	}
}

// NewID generates a new unique identifier for memories, rooms, attachments
// and runtime events.
func NewID() string { return uuid.NewString() }

// MemoryStore persists memories and supports room scoped retrieval.
type MemoryStore interface {
	Create(m *Memory) error
	Get(id string) (*Memory, error)
	// GetByRoom returns the most recent memories for a room in chronological
	// order, up to limit (0 means no limit).
	GetByRoom(roomID string, limit int) ([]*Memory, error)
	Search(roomID, query string, limit int) ([]*Memory, error)
	Delete(id string) error
}

// Room is a conversational container (channel, DM, thread) the agent
// participates in.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Source       string    `json:"source,omitempty"`
	Participants []string  `json:"participants,omitempty"`
	Created      time.Time `json:"created"`
}

// RoomStore tracks rooms and their participants.
type RoomStore interface {
	// Ensure returns the room, creating it if absent.
	Ensure(id string) (*Room, error)
	Get(id string) (*Room, error)
	AddParticipant(roomID, entityID string) error
	Participants(roomID string) ([]string, error)
}

// Attachment is a binary payload referenced by message content.
type Attachment struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	MimeType string    `json:"mimeType,omitempty"`
	URL      string    `json:"url,omitempty"`
	Data     []byte    `json:"-"`
	Created  time.Time `json:"created"`
}

// AttachmentStore persists message attachments.
type AttachmentStore interface {
	Put(a *Attachment) (string, error)
	Get(id string) (*Attachment, error)
	Delete(id string) error
}
