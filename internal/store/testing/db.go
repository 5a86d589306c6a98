// Package storetesting opens throwaway DuckDB databases for tests.
package storetesting

import (
	"database/sql"
	"testing"
	"time"

	"appaudit/internal/store"
	"appaudit/internal/testutil"

	_ "github.com/duckdb/duckdb-go/v2"
)

const openTimeout = 2 * time.Second

// Open opens a DuckDB connection, verifies it responds, and closes it
// when the test ends.
func Open(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	ctx := testutil.Context(t, openTimeout)
	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		t.Fatalf("ping duckdb: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// OpenInitialized opens a connection with the store schema applied.
func OpenInitialized(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db := Open(t, dsn)
	ApplySchema(t, db)
	return db
}

// ApplySchema executes the store DDL on the connection.
func ApplySchema(t testing.TB, db *sql.DB) {
	t.Helper()
	ctx := testutil.Context(t, openTimeout)
	if _, err := db.ExecContext(ctx, store.SchemaDDL()); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
}
