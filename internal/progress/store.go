package progress

import "context"

//go:generate mockgen -source=store.go -destination=../mocks/progress/mock_store.go -package=mock_progress

// Store persists UserProgress records keyed by username. Implementations
// must return copies that the caller may mutate freely, and Get must return
// ErrUserNotFound when no record exists.
type Store interface {
	Get(ctx context.Context, username string) (*UserProgress, error)
	Put(ctx context.Context, user *UserProgress) error
	List(ctx context.Context) (map[string]*UserProgress, error)
}
