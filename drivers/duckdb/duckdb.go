// Package duckdb wires the in-process DuckDB driver as a termsql provider.
package duckdb

import (
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/termsql/termsql/drivers"
)

// New creates a provider for the DuckDB database file at path. The empty
// string opens an in-memory database.
func New(path string) *drivers.SQLProvider {
	return drivers.New("duckdb", path)
}
