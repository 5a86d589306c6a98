// Package store persists audit run history in an embedded DuckDB
// database.
package store

import (
	"database/sql"
	_ "embed"
	"errors"
)

// schemaDDL holds the DuckDB schema definition.
//
//go:embed schema.sql
var schemaDDL string

// SchemaDDL returns the DDL used to initialize store databases.
func SchemaDDL() string {
	return schemaDDL
}

// EnsureSchema applies the schema to the connection. It is idempotent
// and safe to run on every open.
func EnsureSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("store: db is nil")
	}
	_, err := db.Exec(schemaDDL)
	return err
}
