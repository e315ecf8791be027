package database

// Dialect abstracts the SQL differences between the two supported
// engines. The save store needs placeholders, connection init, and a
// case-insensitive key column for slot names.
type Dialect interface {
	// DriverName returns the name registered with database/sql.
	DriverName() string

	// Placeholder returns the parameter marker for a 1-indexed
	// position: "?" for SQLite, "$1", "$2", ... for PostgreSQL.
	Placeholder(position int) string

	// InitStatements returns statements run once at open, before
	// migrations: PRAGMAs for SQLite, extensions for PostgreSQL.
	InitStatements() []string

	// SlotKeyType returns the column type for the slot primary key
	// so "Slot1" and "slot1" name the same save.
	SlotKeyType() string

	// IsDuplicateKeyError reports whether err is a unique
	// constraint violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the Dialect for the given type, defaulting to
// SQLite for anything unrecognized.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
