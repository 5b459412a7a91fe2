package attachment

import (
	"fmt"
	"sync"
	"time"

	"github.com/animus-ai/animus/core"
)

// InMemoryStore is a trivial in-process AttachmentStore implementation useful
// for tests, examples and single-process prototypes. It keeps all attachments
// in a map guarded by an RWMutex. Data is copied on save / retrieval to avoid
// accidental external mutation of internal buffers.
//
// This implementation is intentionally minimal; it does not enforce retention
// limits, size quotas, or eviction. For production, prefer a durable
// implementation (e.g. S3 / GCS / database) that can survive process restarts.
type InMemoryStore struct {
	mu          sync.RWMutex
	attachments map[string]*core.Attachment
}

// NewInMemoryStore returns an empty in-memory attachment store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{attachments: make(map[string]*core.Attachment)}
}

// Put stores (or overwrites) the attachment and returns its id. A fresh id
// and creation time are assigned when missing. The data slice is copied
// before storage.
func (s *InMemoryStore) Put(a *core.Attachment) (string, error) {
	if a == nil {
		return "", fmt.Errorf("attachment is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *a
	if stored.ID == "" {
		stored.ID = core.NewID()
	}
	if stored.Created.IsZero() {
		stored.Created = time.Now().UTC()
	}
	stored.Data = make([]byte, len(a.Data))
	copy(stored.Data, a.Data)
	s.attachments[stored.ID] = &stored
	return stored.ID, nil
}

// Get returns a copy of the stored attachment or ErrNotFound.
func (s *InMemoryStore) Get(id string) (*core.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attachments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	cp.Data = make([]byte, len(a.Data))
	copy(cp.Data, a.Data)
	return &cp, nil
}

// Delete removes the attachment if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attachments[id]; !ok {
		return ErrNotFound
	}
	delete(s.attachments, id)
	return nil
}
