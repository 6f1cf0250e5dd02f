// Package sqlite wires the mattn sqlite3 driver as a termsql provider.
package sqlite

import (
	_ "github.com/mattn/go-sqlite3"

	"github.com/termsql/termsql/drivers"
)

// New creates a provider for the SQLite database file at path. The empty
// string or ":memory:" opens an in-memory database.
func New(path string) *drivers.SQLProvider {
	if path == "" {
		path = ":memory:"
	}
	return drivers.New("sqlite3", path, "PRAGMA foreign_keys = ON")
}
