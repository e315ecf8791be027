package database

import (
	"strings"
)

// SQLiteDialect implements Dialect for the modernc.org/sqlite driver.
// This is the default: a save database is a single local file.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite"
}

// Placeholder ignores the position; SQLite placeholders are all "?".
func (d *SQLiteDialect) Placeholder(position int) string {
	return "?"
}

// InitStatements enables WAL so a crashed session can't corrupt the
// save file, and a busy timeout for the rare concurrent open.
func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

// SlotKeyType uses NOCASE collation for case-insensitive slot names.
func (d *SQLiteDialect) SlotKeyType() string {
	return "TEXT COLLATE NOCASE"
}

func (d *SQLiteDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
