package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tailquest/tailquest/internal/progress"
)

// FileStore keeps the whole user map in memory and rewrites a single JSON
// document on every Put. The document is read once at construction; a missing
// or unreadable document is replaced with an empty one, which is persisted
// immediately. A Put that fails to write leaves the in-memory map ahead of
// the document until the next successful write.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	users map[string]*progress.UserProgress
}

// NewFileStore loads (or initializes) the JSON document at path.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logger,
		users:  map[string]*progress.UserProgress{},
	}

	contents, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run.
	case err != nil:
		logger.Warn("progress document unreadable, resetting to empty", "path", path, "error", err)
	default:
		var users map[string]*progress.UserProgress
		if err := json.Unmarshal(contents, &users); err != nil {
			logger.Warn("progress document corrupt, resetting to empty", "path", path, "error", err)
			break
		}
		if users == nil {
			users = map[string]*progress.UserProgress{}
		}
		for username, user := range users {
			if user == nil {
				delete(users, username)
				continue
			}
			user.Username = username
			user.NormalizeLevelKeys()
		}
		s.users = users
		return s, nil
	}

	if err := s.writeAll(); err != nil {
		return nil, fmt.Errorf("s.writeAll() > %w", err)
	}
	return s, nil
}

// Get returns a copy of the record for username.
func (s *FileStore) Get(_ context.Context, username string) (*progress.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, progress.ErrUserNotFound
	}
	return user.Clone(), nil
}

// Put stores a copy of the record and rewrites the whole document.
func (s *FileStore) Put(_ context.Context, user *progress.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.Username] = user.Clone()
	if err := s.writeAll(); err != nil {
		return fmt.Errorf("s.writeAll() > %w", err)
	}
	return nil
}

// List returns a copy of every record keyed by username.
func (s *FileStore) List(_ context.Context) (map[string]*progress.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]*progress.UserProgress, len(s.users))
	for username, user := range s.users {
		users[username] = user.Clone()
	}
	return users, nil
}

func (s *FileStore) writeAll() error {
	contents, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent() > %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", s.path, err)
	}
	return nil
}
