package drivers

import (
	"database/sql"
	"sync"

	"github.com/termsql/termsql/db"
	"xorkevin.dev/kerrors"
)

// SQLProvider adapts a registered database/sql driver to db.Provider.
type SQLProvider struct {
	driverName  string
	dsn         string
	postConnect []string
}

// New creates a provider for the named database/sql driver. The optional
// postConnect statements run on every fresh connection (session pragmas,
// search path, timeouts) and are best-effort per the db.Provider contract.
func New(driverName, dsn string, postConnect ...string) *SQLProvider {
	return &SQLProvider{
		driverName:  driverName,
		dsn:         dsn,
		postConnect: postConnect,
	}
}

// sqlConn pins a *sql.DB to a single underlying connection so statement
// sequences like BEGIN/INSERT/COMMIT share one session.
type sqlConn struct {
	db   *sql.DB
	once sync.Once
	err  error
}

func (c *sqlConn) Close() error {
	c.once.Do(func() {
		c.err = c.db.Close()
	})
	return c.err
}

func (p *SQLProvider) Connect() (db.Connection, error) {
	handle, err := sql.Open(p.driverName, p.dsn)
	if err != nil {
		return nil, kerrors.WithMsg(err, "Failed to open database handle")
	}
	handle.SetMaxOpenConns(1)
	if err := handle.Ping(); err != nil {
		handle.Close()
		return nil, kerrors.WithMsg(err, "Failed to reach database")
	}
	return &sqlConn{db: handle}, nil
}

func (p *SQLProvider) PostConnect(conn db.Connection) error {
	c, ok := conn.(*sqlConn)
	if !ok {
		return kerrors.WithMsg(nil, "Foreign connection")
	}
	for _, stmt := range p.postConnect {
		if _, err := c.db.Exec(stmt); err != nil {
			return kerrors.WithMsg(err, "Post-connect statement failed")
		}
	}
	return nil
}

func (p *SQLProvider) ExecuteQuery(conn db.Connection, query string, maxRows int) ([]string, [][]any, bool, error) {
	c, ok := conn.(*sqlConn)
	if !ok {
		return nil, nil, false, kerrors.WithMsg(nil, "Foreign connection")
	}

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, nil, false, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, false, err
	}

	var data [][]any
	truncated := false
	for rows.Next() {
		if maxRows > 0 && len(data) >= maxRows {
			truncated = true
			break
		}
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, false, err
		}
		for i, v := range values {
			// drivers hand back []byte for text columns
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, false, err
	}

	return columns, data, truncated, nil
}

func (p *SQLProvider) ExecuteNonQuery(conn db.Connection, query string) (int64, error) {
	c, ok := conn.(*sqlConn)
	if !ok {
		return 0, kerrors.WithMsg(nil, "Foreign connection")
	}

	result, err := c.db.Exec(query)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		// some drivers cannot report affected rows for DDL
		return 0, nil
	}
	return affected, nil
}
