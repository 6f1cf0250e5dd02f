package db

type (
	// Connection is a single database session. Close must be idempotent:
	// the engine closes connections in cleanup paths that can run more
	// than once.
	Connection interface {
		Close() error
	}

	// Provider is the interface boundary implemented by database adapter
	// code. The engine never inspects connections; it only threads them
	// back into the provider that produced them.
	Provider interface {
		// Connect opens a new connection.
		Connect() (Connection, error)
		// PostConnect runs session setup on a fresh connection. It is
		// best-effort: failures are logged and ignored, never surfaced.
		PostConnect(conn Connection) error
		// ExecuteQuery runs a row-returning statement. A maxRows of 0
		// means unlimited; truncated reports whether rows were cut off.
		ExecuteQuery(conn Connection, sql string, maxRows int) (columns []string, rows [][]any, truncated bool, err error)
		// ExecuteNonQuery runs a statement that returns no rows.
		ExecuteNonQuery(conn Connection, sql string) (rowsAffected int64, err error)
	}
)
