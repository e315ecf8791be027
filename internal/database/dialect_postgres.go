package database

import (
	"fmt"
	"strings"
)

// PostgresDialect implements Dialect for the lib/pq driver, for
// installs that keep saves on a shared server instead of a local file.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// Placeholder returns numbered markers ($1, $2, ...).
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// InitStatements enables citext, which backs case-insensitive slot
// names. Foreign keys need no setup on PostgreSQL.
func (d *PostgresDialect) InitStatements() []string {
	return []string{
		"CREATE EXTENSION IF NOT EXISTS citext",
	}
}

// SlotKeyType uses CITEXT for case-insensitive slot names.
func (d *PostgresDialect) SlotKeyType() string {
	return "CITEXT"
}

// IsDuplicateKeyError matches error code 23505 (unique_violation) and
// the message forms lib/pq surfaces it with.
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique constraint")
}
