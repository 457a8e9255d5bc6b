package database

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect abstracts over the differences between the supported databases.
// Queries in the repositories are written with ? placeholders and rewritten
// per dialect before execution.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN builds the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax where needed
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether the driver implements LastInsertId
	SupportsLastInsertId() bool

	// ConfigureConnection applies driver-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the per-dialect migrations directory
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL for the migrations tracking table
	CreateMigrationsTableQuery() string
}

// DialectConfig holds connection settings. Path is used by SQLite, URL by
// PostgreSQL and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

// numberPlaceholders converts ? placeholders to $1, $2, ...
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
