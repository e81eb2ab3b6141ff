// Package db holds the SQL schema migrations.
package db

import "embed"

// Migrations contains every file under migrations/, for builds with the
// embed_migrations tag.
//
//go:embed migrations/*.sql
var Migrations embed.FS
