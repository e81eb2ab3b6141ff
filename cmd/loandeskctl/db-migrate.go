package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/spf13/cobra"

	"github.com/loandesk/loandesk/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date. Migrations are located in the db/migrations directory.

Example:
  loandeskctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrations(); err != nil {
			fmt.Println("Migration failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  loandeskctl db down      # Rollback 1 migration
  loandeskctl db down 2    # Rollback 2 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				fmt.Println("steps must be a positive integer")
				os.Exit(1)
			}
			steps = n
		}

		if err := runMigrationsDown(steps); err != nil {
			fmt.Println("Rollback failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showMigrationStatus(); err != nil {
			fmt.Println("Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

func openMigrate() (*migrate.Migrate, error) {
	dbURL := db.URL()
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	m, err := createMigrateInstance(db.MigrationURL(dbURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func runMigrations() error {
	m, err := openMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to run - database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	fmt.Printf("Migrated to version: %d\n", newVersion)
	fmt.Println("Migrations complete")
	return nil
}

func runMigrationsDown(steps int) error {
	m, err := openMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	fmt.Printf("Rolling back %d migration(s)...\n", steps)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("All migrations rolled back")
		return nil
	}
	fmt.Printf("Rolled back to version: %d\n", version)
	return nil
}

func showMigrationStatus() error {
	m, err := openMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations have been applied yet")
			return nil
		}
		return err
	}

	files, err := listMigrationFiles()
	if err == nil {
		fmt.Printf("Known migrations: %d\n", len(files))
	}
	fmt.Printf("Current version: %d\n", version)
	if dirty {
		fmt.Println("Warning: Database is in a dirty state")
	}
	return nil
}
