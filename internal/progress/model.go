// Package progress provides the level progression domain model and the
// state machine that mutates per-user progress records.
package progress

import (
	"strconv"
	"time"
)

// Track is the learning track a user selects at login.
type Track string

const (
	TrackBeginner     Track = "Beginner"
	TrackIntermediate Track = "Intermediate"
	TrackExpert       Track = "Expert"
)

// Valid reports whether t is one of the known tracks.
func (t Track) Valid() bool {
	switch t {
	case TrackBeginner, TrackIntermediate, TrackExpert:
		return true
	}
	return false
}

// LevelKey returns the canonical map key for a level index: its decimal
// string form.
func LevelKey(level int) string {
	return strconv.Itoa(level)
}

// LevelAttempt records the state of a user's attempts at one level.
type LevelAttempt struct {
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Attempts  int       `json:"attempts" yaml:"attempts"`
	Errors    int       `json:"errors" yaml:"errors"`
	TimeTaken int       `json:"time_taken" yaml:"time_taken"`
}

// UserProgress is the complete progress record for one user. Username is the
// sole identity key.
type UserProgress struct {
	Username       string                  `json:"username" yaml:"username"`
	Type           Track                   `json:"type" yaml:"type"`
	Level          int                     `json:"level" yaml:"level"`
	Levels         map[string]LevelAttempt `json:"levels" yaml:"levels"`
	HardestLevels  map[string]int          `json:"hardest_levels" yaml:"hardest_levels"`
	LevelBackCount int                     `json:"level_back_count" yaml:"level_back_count"`
}

// NewUserProgress returns a fresh record for a first login.
func NewUserProgress(username string, track Track) *UserProgress {
	return &UserProgress{
		Username:      username,
		Type:          track,
		Level:         1,
		Levels:        map[string]LevelAttempt{},
		HardestLevels: map[string]int{},
	}
}

// NormalizeLevelKeys rewrites both level maps so that every key that parses
// as an integer uses its canonical decimal form. Persisted data may carry
// keys like "01" from earlier writers; keys that do not parse are kept
// untouched. Nil maps are replaced with empty ones.
func (u *UserProgress) NormalizeLevelKeys() {
	levels := make(map[string]LevelAttempt, len(u.Levels))
	for key, attempt := range u.Levels {
		levels[normalizeKey(key)] = attempt
	}
	u.Levels = levels

	hardest := make(map[string]int, len(u.HardestLevels))
	for key, errs := range u.HardestLevels {
		hardest[normalizeKey(key)] = errs
	}
	u.HardestLevels = hardest
}

func normalizeKey(key string) string {
	level, err := strconv.Atoi(key)
	if err != nil {
		return key
	}
	return LevelKey(level)
}

// Clone returns a deep copy, so stores can hand out records without aliasing
// their internal maps.
func (u *UserProgress) Clone() *UserProgress {
	clone := *u
	clone.Levels = make(map[string]LevelAttempt, len(u.Levels))
	for key, attempt := range u.Levels {
		clone.Levels[key] = attempt
	}
	clone.HardestLevels = make(map[string]int, len(u.HardestLevels))
	for key, errs := range u.HardestLevels {
		clone.HardestLevels[key] = errs
	}
	return &clone
}
