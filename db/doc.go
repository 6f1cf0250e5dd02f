// Package db provides the query execution engine.
//
// The engine turns raw, possibly multi-statement SQL into transaction-aware
// executions against a database Provider. It does not parse SQL dialects;
// statement segmentation comes from package sqltext and row-returning
// detection from a QueryAnalyzer.
//
// # Executor Usage
//
//	executor := db.NewTransactionExecutor(provider, log)
//	defer executor.Close()
//
//	executor.Execute("BEGIN", 0)
//	executor.Execute("INSERT INTO t VALUES (1)", 0)
//	executor.Execute("COMMIT", 0)
//
// While a transaction is open the executor holds one persistent connection;
// outside a transaction each call runs on an ephemeral connection.
//
// # Result Types
//
// Results form a closed sum over the Result interface:
//   - QueryResult: columns and rows from a row-returning statement
//   - NonQueryResult: rows affected by any other statement
//   - MultiStatementResult: per-statement outcomes of a batch
//
// Expected per-statement failures are carried inside StatementResult values;
// only connection and transaction-control problems surface as errors.
package db
