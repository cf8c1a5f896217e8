package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.RWMutex
	sess models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySession(m.sess), nil
}

func (m *MemoryStore) Save(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = copySession(s.Normalize())
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = models.Session{}
	return nil
}

func copySession(s models.Session) models.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
