// Package testutil provides shared test helpers for config files and
// progress fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tailquest/tailquest/internal/progress"
)

// NewTestLogger returns a logger that discards nothing but writes through
// the test log, so failures show the service output.
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t: t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// SetupTestConfig creates a minimal config file pointing the file store at a
// document inside tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`server:
  address: "127.0.0.1:0"
store:
  backend: file
  file_path: %s
`,
		filepath.Join(tmpDir, "users.json"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteUsersFile writes a progress document to path in the file store layout.
func WriteUsersFile(t *testing.T, path string, users map[string]*progress.UserProgress) {
	t.Helper()

	contents, err := json.MarshalIndent(users, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, contents, 0644))
}

// UserOption configures optional fields when creating a user fixture.
type UserOption func(*progress.UserProgress)

// WithLevel sets the user's current level.
func WithLevel(level int) UserOption {
	return func(u *progress.UserProgress) {
		u.Level = level
	}
}

// WithAttempt records an attempt for a level key.
func WithAttempt(level int, attempt progress.LevelAttempt) UserOption {
	return func(u *progress.UserProgress) {
		u.Levels[progress.LevelKey(level)] = attempt
	}
}

// WithHardest records a hardest-level entry for a level key.
func WithHardest(level, errs int) UserOption {
	return func(u *progress.UserProgress) {
		u.HardestLevels[progress.LevelKey(level)] = errs
	}
}

// NewUser creates a user fixture on the Beginner track.
func NewUser(username string, opts ...UserOption) *progress.UserProgress {
	user := progress.NewUserProgress(username, progress.TrackBeginner)
	for _, opt := range opts {
		opt(user)
	}
	return user
}

// Attempt creates a LevelAttempt fixture.
func Attempt(startedAt time.Time, attempts, errs, timeTaken int) progress.LevelAttempt {
	return progress.LevelAttempt{
		StartedAt: startedAt,
		Attempts:  attempts,
		Errors:    errs,
		TimeTaken: timeTaken,
	}
}
