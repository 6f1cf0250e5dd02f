package db

import (
	"context"

	"github.com/termsql/termsql/sqltext"
	"xorkevin.dev/kerrors"
	"xorkevin.dev/klog"
)

var (
	// ErrConnect is returned when a connection cannot be opened
	ErrConnect errConnect
	// ErrTxnControl is returned when BEGIN, COMMIT, or ROLLBACK itself fails
	ErrTxnControl errTxnControl
)

type (
	errConnect    struct{}
	errTxnControl struct{}
)

func (e errConnect) Error() string {
	return "Failed to open connection"
}

func (e errTxnControl) Error() string {
	return "Transaction control statement failed"
}

// TransactionExecutor executes queries with transaction awareness. While a
// transaction is open (after BEGIN) it reuses one persistent connection;
// outside a transaction each Execute call runs on an ephemeral connection
// that is closed before returning.
//
// An executor owns its connection and state exclusively. Calls on the same
// instance must be serialized by the caller; Close may be called any number
// of times, including to abandon an in-flight call from another goroutine.
type TransactionExecutor struct {
	provider Provider
	analyzer QueryAnalyzer
	log      *klog.LevelLogger
	state    TransactionState
	txConn   Connection
}

// ExecutorOpt is an option for NewTransactionExecutor.
type ExecutorOpt func(e *TransactionExecutor)

// OptAnalyzer overrides the default KeywordAnalyzer with a dialect-aware
// row-returning classifier.
func OptAnalyzer(analyzer QueryAnalyzer) ExecutorOpt {
	return func(e *TransactionExecutor) {
		e.analyzer = analyzer
	}
}

// NewTransactionExecutor creates an executor bound to one provider. The
// caller constructs one executor per connection session.
func NewTransactionExecutor(provider Provider, log klog.Logger, opts ...ExecutorOpt) *TransactionExecutor {
	e := &TransactionExecutor{
		provider: provider,
		analyzer: KeywordAnalyzer{},
		log:      klog.NewLevelLogger(log),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InTransaction reports whether the executor is inside an open transaction.
func (e *TransactionExecutor) InTransaction() bool {
	return e.state.InTransaction()
}

// Execute runs a query or statement batch. The connection-lifetime decision
// is made once, before anything runs: a persistent connection is used when
// one is already open, when the batch contains a transaction start, or when
// the tracker reports an open transaction. A maxRows of 0 means unlimited.
func (e *TransactionExecutor) Execute(sql string, maxRows int) (Result, error) {
	ctx := context.Background()
	sql = sqltext.NormalizeForExecution(sql)

	containsStart := false
	for _, stmt := range sqltext.Split(sql) {
		if IsTransactionStart(stmt.Text) {
			containsStart = true
			break
		}
	}

	usePersistent := e.txConn != nil || containsStart || e.state.InTransaction()

	var conn Connection
	var ephemeral bool
	if usePersistent {
		if e.txConn == nil {
			c, err := e.connect(ctx)
			if err != nil {
				return nil, err
			}
			e.txConn = c
		}
		conn = e.txConn
	} else {
		c, err := e.connect(ctx)
		if err != nil {
			return nil, err
		}
		conn = c
		ephemeral = true
	}
	if ephemeral {
		defer e.closeConn(ctx, conn)
	}

	result, err := e.executeOn(conn, sql, maxRows)
	if err != nil {
		return nil, err
	}

	e.state.OnExecuted(sql)
	if e.txConn != nil && !e.state.InTransaction() {
		// transaction ended, release the persistent connection
		e.closeConn(ctx, e.txConn)
		e.txConn = nil
	}

	return result, nil
}

// AtomicExecute runs the batch all-or-nothing on a dedicated connection,
// wrapped in an explicit BEGIN/COMMIT with rollback on any failure.
//
// A single-statement batch returns its QueryResult or NonQueryResult
// directly. A batch with nothing runnable (empty or comment-only) returns an
// empty completed MultiStatementResult without opening a connection. A
// multi-statement batch returns a MultiStatementResult holding
// every statement attempted; on the first failure the transaction is rolled
// back and no further statements run. Failure of BEGIN or the final COMMIT
// triggers a best-effort ROLLBACK and is returned as an error.
func (e *TransactionExecutor) AtomicExecute(sql string, maxRows int) (Result, error) {
	ctx := context.Background()
	sql = sqltext.NormalizeForExecution(sql)

	var statements []sqltext.Statement
	for _, stmt := range sqltext.Split(sql) {
		if sqltext.IsCommentOnly(stmt.Text) {
			continue
		}
		statements = append(statements, stmt)
	}

	if len(statements) == 0 {
		// nothing runnable, not even worth a connection
		return MultiStatementResult{Results: []StatementResult{}, Completed: true, ErrorIndex: -1}, nil
	}

	conn, err := e.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer e.closeConn(ctx, conn)

	if _, err := e.provider.ExecuteNonQuery(conn, "BEGIN"); err != nil {
		e.rollback(ctx, conn)
		return nil, kerrors.WithKind(err, ErrTxnControl, "Failed to begin transaction")
	}

	if len(statements) == 1 {
		result, err := e.executeOn(conn, statements[0].Text, maxRows)
		if err != nil {
			e.rollback(ctx, conn)
			return nil, err
		}
		if _, err := e.provider.ExecuteNonQuery(conn, "COMMIT"); err != nil {
			e.rollback(ctx, conn)
			return nil, kerrors.WithKind(err, ErrTxnControl, "Failed to commit transaction")
		}
		return result, nil
	}

	results := make([]StatementResult, 0, len(statements))
	for i, stmt := range statements {
		result, err := e.executeOn(conn, stmt.Text, maxRows)
		if err != nil {
			results = append(results, StatementResult{
				Statement: stmt,
				Success:   false,
				Err:       err.Error(),
			})
			e.rollback(ctx, conn)
			return MultiStatementResult{
				Results:    results,
				Completed:  false,
				ErrorIndex: i,
			}, nil
		}
		results = append(results, StatementResult{
			Statement: stmt,
			Result:    result,
			Success:   true,
		})
	}

	if _, err := e.provider.ExecuteNonQuery(conn, "COMMIT"); err != nil {
		e.rollback(ctx, conn)
		return nil, kerrors.WithKind(err, ErrTxnControl, "Failed to commit transaction")
	}

	return MultiStatementResult{
		Results:    results,
		Completed:  true,
		ErrorIndex: -1,
	}, nil
}

// Close releases any open persistent connection and resets transaction
// state. It is idempotent.
func (e *TransactionExecutor) Close() {
	ctx := context.Background()
	if e.txConn != nil {
		e.closeConn(ctx, e.txConn)
		e.txConn = nil
	}
	e.state.Reset()
}

func (e *TransactionExecutor) connect(ctx context.Context) (Connection, error) {
	conn, err := e.provider.Connect()
	if err != nil {
		return nil, kerrors.WithKind(err, ErrConnect, "Failed to open connection")
	}
	if err := e.provider.PostConnect(conn); err != nil {
		// best-effort session setup, never fails the call
		e.log.Warn(ctx, "Post-connect setup failed", klog.AString("error", err.Error()))
	}
	return conn, nil
}

func (e *TransactionExecutor) executeOn(conn Connection, sql string, maxRows int) (Result, error) {
	if e.analyzer.Classify(sql) == KindReturnsRows {
		columns, rows, truncated, err := e.provider.ExecuteQuery(conn, sql, maxRows)
		if err != nil {
			return nil, err
		}
		return QueryResult{
			Columns:   columns,
			Rows:      rows,
			RowCount:  len(rows),
			Truncated: truncated,
		}, nil
	}

	rowsAffected, err := e.provider.ExecuteNonQuery(conn, sql)
	if err != nil {
		return nil, err
	}
	return NonQueryResult{RowsAffected: rowsAffected}, nil
}

func (e *TransactionExecutor) rollback(ctx context.Context, conn Connection) {
	if _, err := e.provider.ExecuteNonQuery(conn, "ROLLBACK"); err != nil {
		// swallowed so the original error is not masked
		e.log.Debug(ctx, "Rollback failed", klog.AString("error", err.Error()))
	}
}

func (e *TransactionExecutor) closeConn(ctx context.Context, conn Connection) {
	if err := conn.Close(); err != nil {
		// cleanup errors are not actionable by the caller
		e.log.Debug(ctx, "Failed to close connection", klog.AString("error", err.Error()))
	}
}
