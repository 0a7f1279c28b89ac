// Package store provides persistence backings for user progress records: an
// in-memory map for tests, a single JSON document rewritten on every write,
// and a MySQL table.
package store

import (
	"context"
	"sync"

	"github.com/tailquest/tailquest/internal/progress"
)

// MemoryStore keeps records in a process-local map. Used by tests and
// ephemeral runs.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*progress.UserProgress
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]*progress.UserProgress{}}
}

// Get returns a copy of the record for username.
func (s *MemoryStore) Get(_ context.Context, username string) (*progress.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, progress.ErrUserNotFound
	}
	return user.Clone(), nil
}

// Put stores a copy of the record.
func (s *MemoryStore) Put(_ context.Context, user *progress.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.Username] = user.Clone()
	return nil
}

// List returns a copy of every record keyed by username.
func (s *MemoryStore) List(_ context.Context) (map[string]*progress.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]*progress.UserProgress, len(s.users))
	for username, user := range s.users {
		users[username] = user.Clone()
	}
	return users, nil
}
