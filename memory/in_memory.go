package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/animus-ai/animus/core"
)

// InMemoryStore is a naive process-local MemoryStore keeping memories in a
// per-room map. Retrieval returns chronological order; Search is a linear
// scan with case-insensitive substring matching. Concurrency: protected by
// RWMutex. Suitable only for tests / demos; swap for a database or vector
// index for production retrieval.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*core.Memory
	rooms map[string][]string // roomID -> memory IDs in insertion order
}

// NewInMemoryStore creates a new in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:  make(map[string]*core.Memory),
		rooms: make(map[string][]string),
	}
}

// Create stores a memory. The memory's ID must be set; duplicates are rejected.
func (s *InMemoryStore) Create(m *core.Memory) error {
	if m == nil || m.ID == "" {
		return fmt.Errorf("memory requires an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[m.ID]; exists {
		return fmt.Errorf("memory %s already exists", m.ID)
	}
	stored := *m
	s.byID[m.ID] = &stored
	s.rooms[m.RoomID] = append(s.rooms[m.RoomID], m.ID)
	return nil
}

// Get returns a copy of the memory with the given id.
func (s *InMemoryStore) Get(id string) (*core.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("memory %s not found", id)
	}
	cp := *m
	return &cp, nil
}

// GetByRoom returns the most recent memories for a room in chronological
// order, up to limit (0 means no limit).
func (s *InMemoryStore) GetByRoom(roomID string, limit int) ([]*core.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.rooms[roomID]
	start := 0
	if limit > 0 && len(ids) > limit {
		start = len(ids) - limit
	}
	out := make([]*core.Memory, 0, len(ids)-start)
	for _, id := range ids[start:] {
		if m, ok := s.byID[id]; ok {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Search performs a case-insensitive substring match over a room's memory
// text, newest first, up to limit.
func (s *InMemoryStore) Search(roomID, query string, limit int) ([]*core.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.rooms[roomID]
	needle := strings.ToLower(query)
	out := make([]*core.Memory, 0, limit)
	for i := len(ids) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		m, ok := s.byID[ids[i]]
		if !ok {
			continue
		}
		if query == "" || strings.Contains(strings.ToLower(m.Content.Text), needle) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Delete removes a memory by id.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("memory %s not found", id)
	}
	delete(s.byID, id)
	ids := s.rooms[m.RoomID]
	for i, candidate := range ids {
		if candidate == id {
			s.rooms[m.RoomID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
