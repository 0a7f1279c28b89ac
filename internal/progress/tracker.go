package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Tracker owns the authoritative state of every user's learning progress.
// All mutations go through the configured Store, and the whole state is
// persisted after every mutating operation. A single mutex serializes
// mutations so that concurrent requests for the same username keep
// last-writer-wins semantics instead of corrupting the record.
type Tracker struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store Store, logger *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Login registers a user on first call and returns the full progress record.
// An existing record keeps its progress; only the track is overwritten when
// it differs. Level map keys are re-normalized on every login to absorb
// heterogeneous persisted data.
func (t *Tracker) Login(ctx context.Context, username string, track Track) (*UserProgress, error) {
	if username == "" {
		return nil, invalidInputf("username is required")
	}
	if !track.Valid() {
		return nil, invalidInputf("unknown track %q", track)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	user, err := t.store.Get(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		user = NewUserProgress(username, track)
	} else if err != nil {
		return nil, fmt.Errorf("store.Get(%s) > %w", username, err)
	}

	if user.Type != track {
		user.Type = track
	}
	user.NormalizeLevelKeys()

	if err := t.store.Put(ctx, user); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return user, nil
}

// StartLevel begins an attempt at a level. Starting a level that already has
// an attempt is a no-op for that attempt: the original started_at is kept so
// repeated starts do not reset timing.
func (t *Tracker) StartLevel(ctx context.Context, username string, track Track, level int) (LevelAttempt, error) {
	if err := validateLevelInput(username, track, level); err != nil {
		return LevelAttempt{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	user, err := t.store.Get(ctx, username)
	if err != nil {
		return LevelAttempt{}, err
	}

	key := LevelKey(level)
	attempt, ok := user.Levels[key]
	if !ok {
		attempt = LevelAttempt{StartedAt: t.now()}
		user.Levels[key] = attempt
	}

	if err := t.store.Put(ctx, user); err != nil {
		return LevelAttempt{}, &PersistenceError{Err: err}
	}
	return attempt, nil
}

// FinishResult is the outcome of a FinishLevel call.
type FinishResult struct {
	Attempt       LevelAttempt
	UserLevel     int
	HardestErrors int
}

// FinishLevel scores an attempt. The attempt counter grows by the number of
// errors made, or by one for an error-free finish. The user's current level
// advances by one only when the finished level is the current one and fewer
// than three errors were made. hardest_levels keeps the maximum error count
// ever reported for the level.
func (t *Tracker) FinishLevel(ctx context.Context, username string, track Track, level, errorCount int) (FinishResult, error) {
	if err := validateLevelInput(username, track, level); err != nil {
		return FinishResult{}, err
	}
	if errorCount < 0 {
		return FinishResult{}, invalidInputf("errors must not be negative, got %d", errorCount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	user, err := t.store.Get(ctx, username)
	if err != nil {
		return FinishResult{}, err
	}

	now := t.now()
	key := LevelKey(level)
	attempt, ok := user.Levels[key]
	if !ok {
		// Finish without a prior start synthesizes a zero attempt.
		attempt = LevelAttempt{StartedAt: now}
	}

	attempt.TimeTaken = int(now.Sub(attempt.StartedAt) / time.Second)
	if errorCount > 0 {
		attempt.Attempts += errorCount
	} else {
		attempt.Attempts++
	}
	attempt.Errors = errorCount
	// The next finish on this level measures time since this one.
	attempt.StartedAt = now
	user.Levels[key] = attempt

	if hardest, ok := user.HardestLevels[key]; !ok || hardest < errorCount {
		user.HardestLevels[key] = errorCount
	}

	if user.Level == level && errorCount < 3 {
		user.Level++
	}

	if err := t.store.Put(ctx, user); err != nil {
		return FinishResult{}, &PersistenceError{Err: err}
	}

	t.logger.Info("level finished",
		"username", username,
		"level", level,
		"errors", errorCount,
		"attempts", attempt.Attempts,
		"time_taken", attempt.TimeTaken,
		"user_level", user.Level,
		"hardest_errors", user.HardestLevels[key],
	)

	return FinishResult{
		Attempt:       attempt,
		UserLevel:     user.Level,
		HardestErrors: user.HardestLevels[key],
	}, nil
}

// LevelBack steps the user back one level, never below one. The back counter
// increments on every call, including at the floor.
func (t *Tracker) LevelBack(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, invalidInputf("username is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	user, err := t.store.Get(ctx, username)
	if err != nil {
		return 0, err
	}

	user.LevelBackCount++
	if user.Level > 1 {
		user.Level--
	}

	if err := t.store.Put(ctx, user); err != nil {
		return 0, &PersistenceError{Err: err}
	}
	return user.Level, nil
}

// ListUsers returns every progress record keyed by username.
func (t *Tracker) ListUsers(ctx context.Context) (map[string]*UserProgress, error) {
	users, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.List() > %w", err)
	}
	return users, nil
}

func validateLevelInput(username string, track Track, level int) error {
	if username == "" {
		return invalidInputf("username is required")
	}
	if !track.Valid() {
		return invalidInputf("unknown track %q", track)
	}
	if level < 1 {
		return invalidInputf("level must be a positive integer, got %d", level)
	}
	return nil
}
