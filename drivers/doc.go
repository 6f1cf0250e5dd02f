// Package drivers implements the db.Provider interface on top of
// database/sql.
//
// Each engine lives in its own subpackage that registers its driver and
// knows how to build a DSN:
//
//	provider := sqlite.New("/path/to/app.db")
//	executor := db.NewTransactionExecutor(provider, log)
//
// Every Connect opens a dedicated single-session handle so that raw
// BEGIN/COMMIT/ROLLBACK statements issued by the engine stay on one
// underlying connection.
package drivers
