package database

import "time"

// Config selects the save store backend.
type Config struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string

	// SQLitePath is the save database file; parent directories are
	// created on open.
	SQLitePath string

	Postgres PostgresConfig
}

// PostgresConfig holds connection settings for a shared save server.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a SQLite config pointed at the given file.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     "sqlite",
		SQLitePath: sqlitePath,
	}
}

// DefaultPostgresConfig returns pool settings suited to a single
// interactive session.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}
