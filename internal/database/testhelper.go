package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kennelworks/pedigree/internal/config"
)

// NewInMemory creates an in-memory database for tests. Foreign keys are on;
// no migrations are run.
func NewInMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{
		DB:     sqlDB,
		path:   ":memory:",
		config: &config.DatabaseConfig{},
	}, nil
}

// NewMigratedInMemory returns an in-memory database with every migration
// applied.
func NewMigratedInMemory(ctx context.Context) (*DB, error) {
	db, err := NewInMemory()
	if err != nil {
		return nil, err
	}

	m, err := NewMigrator(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := m.MigrateUp(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
