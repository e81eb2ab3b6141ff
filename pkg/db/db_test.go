package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestConnect_RequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLogMode(t *testing.T) {
	assert.Equal(t, logger.Info, LogMode("debug"))
	assert.Equal(t, logger.Info, LogMode("TRACE"))
	assert.Equal(t, logger.Warn, LogMode("warn"))
	assert.Equal(t, logger.Error, LogMode("error"))
	assert.Equal(t, logger.Silent, LogMode("info"))
	assert.Equal(t, logger.Silent, LogMode(""))
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "", MigrationURL(""))
	assert.Equal(t,
		"postgres://u:p@db/loandesk?x-migrations-table=schema_migrations",
		MigrationURL("postgres://u:p@db/loandesk"))
	assert.Equal(t,
		"postgres://u:p@db/loandesk?sslmode=disable&x-migrations-table=schema_migrations",
		MigrationURL("postgres://u:p@db/loandesk?sslmode=disable"))
}
