package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelKey(t *testing.T) {
	assert.Equal(t, "1", LevelKey(1))
	assert.Equal(t, "42", LevelKey(42))
}

func TestTrack_Valid(t *testing.T) {
	tests := []struct {
		track Track
		want  bool
	}{
		{TrackBeginner, true},
		{TrackIntermediate, true},
		{TrackExpert, true},
		{Track(""), false},
		{Track("beginner"), false},
		{Track("Advanced"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.track), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.track.Valid())
		})
	}
}

func TestUserProgress_NormalizeLevelKeys(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		user        *UserProgress
		wantLevels  []string
		wantHardest []string
	}{
		{
			name: "keys with leading zeros are canonicalized",
			user: &UserProgress{
				Levels: map[string]LevelAttempt{
					"01": {StartedAt: started},
					"2":  {StartedAt: started},
				},
				HardestLevels: map[string]int{"003": 4},
			},
			wantLevels:  []string{"1", "2"},
			wantHardest: []string{"3"},
		},
		{
			name: "non-numeric keys are kept",
			user: &UserProgress{
				Levels:        map[string]LevelAttempt{"bonus": {}},
				HardestLevels: map[string]int{"bonus": 1},
			},
			wantLevels:  []string{"bonus"},
			wantHardest: []string{"bonus"},
		},
		{
			name:        "nil maps become empty maps",
			user:        &UserProgress{},
			wantLevels:  []string{},
			wantHardest: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.user.NormalizeLevelKeys()

			assert.Len(t, tt.user.Levels, len(tt.wantLevels))
			for _, key := range tt.wantLevels {
				assert.Contains(t, tt.user.Levels, key)
			}
			assert.Len(t, tt.user.HardestLevels, len(tt.wantHardest))
			for _, key := range tt.wantHardest {
				assert.Contains(t, tt.user.HardestLevels, key)
			}
		})
	}
}

func TestUserProgress_Clone(t *testing.T) {
	user := NewUserProgress("alice", TrackBeginner)
	user.Levels["1"] = LevelAttempt{Attempts: 2}
	user.HardestLevels["1"] = 3

	clone := user.Clone()
	clone.Level = 5
	clone.Levels["1"] = LevelAttempt{Attempts: 9}
	clone.HardestLevels["1"] = 9

	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 2, user.Levels["1"].Attempts)
	assert.Equal(t, 3, user.HardestLevels["1"])
}
