// Package room provides the built-in in-memory implementation of
// core.RoomStore tracking rooms and their participants.
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/animus-ai/animus/core"
)

// InMemoryStore is a volatile RoomStore implementation keeping rooms in a
// process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo agents. Each returned room is cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*core.Room
}

// NewInMemoryStore constructs an empty in-memory room store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rooms: make(map[string]*core.Room)}
}

// Ensure returns the room with the given id, creating it lazily if absent.
func (s *InMemoryStore) Ensure(id string) (*core.Room, error) {
	if id == "" {
		return nil, fmt.Errorf("room requires an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		room = &core.Room{ID: id, Created: time.Now().UTC()}
		s.rooms[id] = room
	}
	return cloneRoom(room), nil
}

// Get returns a clone of an existing room.
func (s *InMemoryStore) Get(id string) (*core.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %s not found", id)
	}
	return cloneRoom(room), nil
}

// AddParticipant records an entity as a room participant, creating the room
// if needed. Adding the same entity twice is a no-op.
func (s *InMemoryStore) AddParticipant(roomID, entityID string) error {
	if roomID == "" || entityID == "" {
		return fmt.Errorf("room id and entity id are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		room = &core.Room{ID: roomID, Created: time.Now().UTC()}
		s.rooms[roomID] = room
	}
	for _, p := range room.Participants {
		if p == entityID {
			return nil
		}
	}
	room.Participants = append(room.Participants, entityID)
	return nil
}

// Participants returns a snapshot of the room's participant ids.
func (s *InMemoryStore) Participants(roomID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("room %s not found", roomID)
	}
	out := make([]string, len(room.Participants))
	copy(out, room.Participants)
	return out, nil
}

// cloneRoom copies a room including its participant slice.
func cloneRoom(r *core.Room) *core.Room {
	cp := *r
	cp.Participants = make([]string, len(r.Participants))
	copy(cp.Participants, r.Participants)
	return &cp
}
