// Package testutil provides utilities for testing.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	_ "modernc.org/sqlite" // SQLite driver
)

// TestDB wraps a test database connection.
type TestDB struct {
	*sql.DB
	path string
}

// NewTestDB creates a new in-memory SQLite database for testing. The
// connection is closed when the test ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	tdb := &TestDB{DB: db, path: ":memory:"}
	t.Cleanup(func() { tdb.DB.Close() })
	return tdb
}

// NewMigratedTestDB is NewTestDB followed by RunMigrations on the registry
// schema. dir is the migrations directory relative to the calling package.
func NewMigratedTestDB(t *testing.T, dir string) *TestDB {
	t.Helper()

	tdb := NewTestDB(t)
	tdb.RunMigrations(t, dir)
	return tdb
}

// RunMigrations executes the "Up" portion of every .sql file in
// migrationsDir in file name order.
func (tdb *TestDB) RunMigrations(t *testing.T, migrationsDir string) {
	t.Helper()

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("failed to read migrations directory: %v", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	ctx := context.Background()
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".sql" {
			continue
		}

		sqlBytes, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Fatalf("failed to read migration %s: %v", file.Name(), err)
		}

		sqlStr := string(sqlBytes)
		if idx := strings.Index(sqlStr, "-- +migrate Down"); idx >= 0 {
			sqlStr = sqlStr[:idx]
		}

		if _, err := tdb.ExecContext(ctx, sqlStr); err != nil {
			t.Fatalf("failed to execute migration %s: %v", file.Name(), err)
		}
	}
}

// AssertRowCount asserts the row count for a table.
func (tdb *TestDB) AssertRowCount(t *testing.T, table string, expected int) {
	t.Helper()

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := tdb.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}

// ExecSQL executes arbitrary SQL (useful for test setup).
func (tdb *TestDB) ExecSQL(t *testing.T, sql string, args ...any) {
	t.Helper()

	if _, err := tdb.Exec(sql, args...); err != nil {
		t.Fatalf("failed to execute SQL: %v\nSQL: %s", err, sql)
	}
}
