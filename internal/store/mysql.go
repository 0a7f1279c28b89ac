package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tailquest/tailquest/internal/progress"
)

// MySQLStore persists records in a user_progress table, one row per user.
// The two level maps are stored as JSON columns.
type MySQLStore struct {
	db *sqlx.DB
}

// NewMySQLStore creates a MySQLStore over an open connection.
func NewMySQLStore(db *sqlx.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

type userProgressRow struct {
	Username       string `db:"username"`
	Type           string `db:"type"`
	Level          int    `db:"level"`
	Levels         []byte `db:"levels"`
	HardestLevels  []byte `db:"hardest_levels"`
	LevelBackCount int    `db:"level_back_count"`
}

// Get returns the record for username.
func (s *MySQLStore) Get(ctx context.Context, username string) (*progress.UserProgress, error) {
	var row userProgressRow
	err := s.db.GetContext(ctx, &row,
		"SELECT username, type, level, levels, hardest_levels, level_back_count FROM user_progress WHERE username = ?",
		username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, progress.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user_progress) > %w", err)
	}
	return rowToUser(row)
}

// Put inserts or updates the row for the record's username.
func (s *MySQLStore) Put(ctx context.Context, user *progress.UserProgress) error {
	levels, err := json.Marshal(user.Levels)
	if err != nil {
		return fmt.Errorf("json.Marshal(levels) > %w", err)
	}
	hardest, err := json.Marshal(user.HardestLevels)
	if err != nil {
		return fmt.Errorf("json.Marshal(hardest_levels) > %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_progress (username, type, level, levels, hardest_levels, level_back_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			type = VALUES(type), level = VALUES(level), levels = VALUES(levels),
			hardest_levels = VALUES(hardest_levels), level_back_count = VALUES(level_back_count)`,
		user.Username, string(user.Type), user.Level, levels, hardest, user.LevelBackCount)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert user_progress) > %w", err)
	}
	return nil
}

// List returns every record keyed by username.
func (s *MySQLStore) List(ctx context.Context) (map[string]*progress.UserProgress, error) {
	var rows []userProgressRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT username, type, level, levels, hardest_levels, level_back_count FROM user_progress ORDER BY username"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(user_progress) > %w", err)
	}

	users := make(map[string]*progress.UserProgress, len(rows))
	for _, row := range rows {
		user, err := rowToUser(row)
		if err != nil {
			return nil, err
		}
		users[user.Username] = user
	}
	return users, nil
}

func rowToUser(row userProgressRow) (*progress.UserProgress, error) {
	user := &progress.UserProgress{
		Username:       row.Username,
		Type:           progress.Track(row.Type),
		Level:          row.Level,
		LevelBackCount: row.LevelBackCount,
	}
	if len(row.Levels) > 0 {
		if err := json.Unmarshal(row.Levels, &user.Levels); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(levels) > %w", err)
		}
	}
	if len(row.HardestLevels) > 0 {
		if err := json.Unmarshal(row.HardestLevels, &user.HardestLevels); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(hardest_levels) > %w", err)
		}
	}
	user.NormalizeLevelKeys()
	return user, nil
}
