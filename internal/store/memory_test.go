package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailquest/tailquest/internal/progress"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore()

	_, err := memory.Get(ctx, "alice")
	assert.ErrorIs(t, err, progress.ErrUserNotFound)

	user := progress.NewUserProgress("alice", progress.TrackBeginner)
	require.NoError(t, memory.Put(ctx, user))

	got, err := memory.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user, got)

	users, err := memory.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, user, users["alice"])
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	memory := NewMemoryStore()

	user := progress.NewUserProgress("alice", progress.TrackBeginner)
	require.NoError(t, memory.Put(ctx, user))

	// Mutating what the caller holds must not touch the stored copy.
	user.Level = 9
	user.Levels["1"] = progress.LevelAttempt{Attempts: 5}

	got, err := memory.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
	assert.Empty(t, got.Levels)

	// Nor must mutating what Get returned.
	got.HardestLevels["1"] = 7
	again, err := memory.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, again.HardestLevels)
}
