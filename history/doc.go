// Package history stores executed queries and starred queries per
// connection.
//
// The store is backed by a Git repository: every mutation is a commit, so
// the full edit history of saved queries is recoverable with standard Git
// tooling. An in-memory store (used by tests and ephemeral sessions) and a
// file-backed store share the same implementation over different worktrees.
//
//	store, err := history.NewFileStore("/home/user/.local/share/termsql")
//	store.SaveQuery("staging", "SELECT * FROM orders")
//	entries, err := store.LoadForConnection("staging")
//
// Saving a query that already exists for the connection refreshes its
// timestamp instead of duplicating it.
package history
