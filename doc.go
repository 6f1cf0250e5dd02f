// Package termsql provides the query execution engine of a terminal SQL
// client.
//
// A Session ties one configured connection to a transaction-aware executor.
// Executing BEGIN pins a connection for the rest of the transaction so
// COMMIT and ROLLBACK act on the same session; outside a transaction each
// buffer runs on a fresh connection. Buffers containing multiple statements
// are split quote-aware and run in order, stopping at the first failure.
//
// # Quick Start
//
//	settings, _ := config.Load("")
//	conn, _ := settings.Connection("local")
//	session, _ := termsql.Open(conn, settings, log)
//	defer session.Close()
//
//	result, err := session.Execute("SELECT * FROM users")
//
// # Alerts
//
// Before running a buffer, classify it to decide whether to prompt:
//
//	if session.NeedsConfirmation("DELETE FROM users") {
//		// ask the user first
//	}
package termsql
