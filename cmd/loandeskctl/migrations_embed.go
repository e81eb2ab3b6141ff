//go:build embed_migrations

package main

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/loandesk/loandesk/db"
)

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	d, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	return migrate.NewWithSourceInstance("iofs", d, dbURL)
}

func listMigrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
