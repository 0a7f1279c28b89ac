package database

import (
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"

	"github.com/tailquest/tailquest/schemas"
)

// Migrate applies every embedded schema migration in lexical order.
// Migrations are written to be re-runnable, so this is safe at every startup.
func Migrate(db *sqlx.DB) error {
	entries, err := fs.ReadDir(schemas.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("fs.ReadDir(migrations) > %w", err)
	}

	for _, entry := range entries {
		contents, err := fs.ReadFile(schemas.Migrations, "migrations/"+entry.Name())
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", entry.Name(), err)
		}
		if _, err := db.Exec(string(contents)); err != nil {
			return fmt.Errorf("db.Exec(%s) > %w", entry.Name(), err)
		}
	}
	return nil
}
