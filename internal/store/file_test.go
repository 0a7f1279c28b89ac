package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailquest/tailquest/internal/progress"
	"github.com/tailquest/tailquest/internal/testutil"
)

func TestFileStore_InitializesMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	fileStore, err := NewFileStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	users, err := fileStore.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	// An empty document is created eagerly.
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(contents))
}

func TestFileStore_ResetsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	fileStore, err := NewFileStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	users, err := fileStore.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(contents))
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	fileStore, err := NewFileStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	alice := testutil.NewUser("alice",
		testutil.WithLevel(3),
		testutil.WithAttempt(1, testutil.Attempt(started, 4, 2, 75)),
		testutil.WithHardest(1, 2),
	)
	bob := testutil.NewUser("bob")
	require.NoError(t, fileStore.Put(ctx, alice))
	require.NoError(t, fileStore.Put(ctx, bob))

	// A fresh store over the same document sees an equivalent map.
	reloaded, err := NewFileStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	users, err := reloaded.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, alice, users["alice"])
	assert.Equal(t, bob, users["bob"])
}

func TestFileStore_NormalizesKeysOnLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	seed := testutil.NewUser("alice")
	seed.Levels["01"] = progress.LevelAttempt{Attempts: 2}
	seed.HardestLevels["01"] = 4
	testutil.WriteUsersFile(t, path, map[string]*progress.UserProgress{"alice": seed})

	fileStore, err := NewFileStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	user, err := fileStore.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, user.Levels, "1")
	assert.NotContains(t, user.Levels, "01")
	assert.Equal(t, 4, user.HardestLevels["1"])
}

func TestFileStore_PutRewritesWholeDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	fileStore, err := NewFileStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	require.NoError(t, fileStore.Put(ctx, testutil.NewUser("alice")))
	require.NoError(t, fileStore.Put(ctx, testutil.NewUser("bob", testutil.WithLevel(2))))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var document map[string]*progress.UserProgress
	require.NoError(t, json.Unmarshal(contents, &document))
	require.Len(t, document, 2)
	assert.Equal(t, 2, document["bob"].Level)
}

func TestFileStore_GetUnknownUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	fileStore, err := NewFileStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	_, err = fileStore.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, progress.ErrUserNotFound)
}
