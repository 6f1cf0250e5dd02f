package termsql

import (
	"time"

	"github.com/termsql/termsql/alert"
	"github.com/termsql/termsql/config"
	"github.com/termsql/termsql/db"
	"github.com/termsql/termsql/drivers/duckdb"
	"github.com/termsql/termsql/drivers/postgres"
	"github.com/termsql/termsql/drivers/sqlite"
	"github.com/termsql/termsql/history"
	"xorkevin.dev/kerrors"
	"xorkevin.dev/klog"
)

// ErrUnknownDriver is returned for an unrecognized connection type
var ErrUnknownDriver errUnknownDriver

type errUnknownDriver struct{}

func (e errUnknownDriver) Error() string {
	return "Unknown driver"
}

// Session is a live connection context: one configured connection, its
// transaction-aware executor, and optional query history.
type Session struct {
	name      string
	executor  *db.TransactionExecutor
	multi     *db.MultiStatementExecutor
	alertMode alert.Mode
	maxRows   int
	history   *history.Store
}

// SessionOpt configures a Session.
type SessionOpt func(s *Session)

// OptHistory records successfully executed buffers in the given store.
func OptHistory(store *history.Store) SessionOpt {
	return func(s *Session) {
		s.history = store
	}
}

// Open creates a session for the named connection. The connection's auth
// token, when present, is checked for expiry before any database work.
func Open(conn *config.Connection, settings *config.Settings, log klog.Logger, opts ...SessionOpt) (*Session, error) {
	if err := conn.CheckToken(time.Now()); err != nil {
		return nil, err
	}
	provider, err := NewProvider(conn)
	if err != nil {
		return nil, err
	}

	executor := db.NewTransactionExecutor(provider, log)
	s := &Session{
		name:      conn.Name,
		executor:  executor,
		multi:     db.NewMultiStatementExecutor(executor),
		alertMode: settings.AlertModeValue(),
		maxRows:   settings.MaxRows,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewProvider builds a database provider from connection config.
func NewProvider(conn *config.Connection) (db.Provider, error) {
	switch conn.Type {
	case "sqlite3", "sqlite":
		return sqlite.New(conn.Path), nil
	case "duckdb":
		return duckdb.New(conn.Path), nil
	case "postgres", "postgresql":
		return postgres.New(postgres.Options{
			Host:     conn.Host,
			Port:     conn.Port,
			User:     conn.User,
			Password: conn.Password,
			Database: conn.Database,
			SSLMode:  conn.SSLMode,
		}), nil
	default:
		return nil, kerrors.WithKind(nil, ErrUnknownDriver, "Unknown connection type: "+conn.Type)
	}
}

// Name returns the connection name.
func (s *Session) Name() string {
	return s.name
}

// InTransaction reports whether a transaction is open on the session.
func (s *Session) InTransaction() bool {
	return s.executor.InTransaction()
}

// Classify returns the alert severity of a buffer.
func (s *Session) Classify(sql string) alert.Severity {
	return alert.Classify(sql)
}

// NeedsConfirmation reports whether the session's alert mode requires the
// user to confirm this buffer before it runs.
func (s *Session) NeedsConfirmation(sql string) bool {
	return alert.ShouldConfirm(s.alertMode, alert.Classify(sql))
}

// Execute runs a buffer on the session, keeping the transaction connection
// alive across calls. The buffer is saved to history on success.
func (s *Session) Execute(sql string) (db.Result, error) {
	res, err := s.executor.Execute(sql, s.maxRows)
	if err != nil {
		return nil, err
	}
	s.record(sql)
	return res, nil
}

// ExecuteAll splits a buffer and runs each statement in order, stopping at
// the first failure.
func (s *Session) ExecuteAll(sql string) db.MultiStatementResult {
	res := s.multi.Execute(sql, s.maxRows)
	if !res.HasError() && len(res.Results) > 0 {
		s.record(sql)
	}
	return res
}

// ExecuteAtomic runs a buffer inside a transaction, rolling back when any
// statement fails.
func (s *Session) ExecuteAtomic(sql string) (db.Result, error) {
	res, err := s.executor.AtomicExecute(sql, s.maxRows)
	if err != nil {
		return nil, err
	}
	if multi, ok := res.(db.MultiStatementResult); !ok || !multi.HasError() {
		s.record(sql)
	}
	return res, nil
}

// History returns the session's history store, or nil when history is off.
func (s *Session) History() *history.Store {
	return s.history
}

func (s *Session) record(sql string) {
	if s.history == nil {
		return
	}
	// history is best effort
	_ = s.history.SaveQuery(s.name, sql)
}

// Close releases the transaction connection if one is open.
func (s *Session) Close() {
	s.executor.Close()
}
