// Package database persists save slots to SQLite or PostgreSQL behind
// a shared Dialect abstraction. Each slot stores one encoded game
// snapshot plus enough metadata to list saves without decoding them.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// ErrSlotNotFound is returned when a save slot does not exist.
var ErrSlotNotFound = errors.New("database: save slot not found")

// Database wraps the SQL connection and the dialect it speaks.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open connects to the configured database, applies dialect init
// statements, and runs migrations.
func Open(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == string(DialectPostgres) {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	d := &Database{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
	}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database opened", "driver", dialect.DriverName())
	return d, nil
}

// dataSourceName builds the driver DSN from the config.
func dataSourceName(cfg Config) (string, error) {
	if cfg.Driver == string(DialectPostgres) {
		pg := cfg.Postgres
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			pg.Host, pg.Port, pg.User, pg.Password, pg.Database, pg.SSLMode,
		), nil
	}

	dir := filepath.Dir(cfg.SQLitePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return cfg.SQLitePath, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS saves (
			slot %s PRIMARY KEY,
			character_name TEXT NOT NULL,
			tier INTEGER NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, d.dialect.SlotKeyType()),

		`CREATE INDEX IF NOT EXISTS idx_saves_updated_at ON saves(updated_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SlotInfo describes one save slot without its payload.
type SlotInfo struct {
	Slot          string
	CharacterName string
	Tier          int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
