// Package session prepares and owns embedded DuckDB connections that
// transparently federate the configured data sources.
package session

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Connection is the capability the preparer needs from a database handle:
// extension management and statement execution. *DB implements it; tests
// substitute recorders.
type Connection interface {
	// InstallExtension installs a DuckDB extension by name.
	InstallExtension(ctx context.Context, name string) error

	// LoadExtension loads a previously installed extension.
	LoadExtension(ctx context.Context, name string) error

	// Execute runs a SQL statement that returns no rows.
	Execute(ctx context.Context, sql string) error
}

// DB wraps a database/sql handle to an embedded DuckDB instance.
type DB struct {
	db *sql.DB
}

// OpenDB opens a DuckDB database at path. An empty path means in-memory.
func OpenDB(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	return &DB{db: db}, nil
}

// WrapDB adopts an existing database/sql handle. The caller keeps
// ownership of the handle's lifetime.
func WrapDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InstallExtension installs a DuckDB extension.
func (d *DB) InstallExtension(ctx context.Context, name string) error {
	return d.Execute(ctx, fmt.Sprintf("INSTALL %s;", name))
}

// LoadExtension loads a DuckDB extension.
func (d *DB) LoadExtension(ctx context.Context, name string) error {
	return d.Execute(ctx, fmt.Sprintf("LOAD %s;", name))
}

// Execute runs a statement that returns no rows.
func (d *DB) Execute(ctx context.Context, sqlStr string) error {
	if d.db == nil {
		return fmt.Errorf("database connection not established")
	}
	if _, err := d.db.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query runs a statement that returns rows. Callers must close the rows
// and check rows.Err after iteration.
func (d *DB) Query(ctx context.Context, sqlStr string) (*sql.Rows, error) {
	if d.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	rows, err := d.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}
