// Package postgres wires lib/pq as a termsql provider.
package postgres

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/termsql/termsql/drivers"
)

// Options describe a PostgreSQL connection.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN builds a lib/pq connection string from the options.
func DSN(opts Options) string {
	parts := []string{}
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", key, quote(value)))
		}
	}
	add("host", opts.Host)
	if opts.Port > 0 {
		parts = append(parts, fmt.Sprintf("port=%d", opts.Port))
	}
	add("user", opts.User)
	add("password", opts.Password)
	add("dbname", opts.Database)
	// lib/pq defaults to sslmode=require when the parameter is absent
	add("sslmode", opts.SSLMode)
	return strings.Join(parts, " ")
}

// quote wraps values containing spaces or quotes in the single-quote form
// lib/pq expects.
func quote(value string) string {
	if !strings.ContainsAny(value, " '\\") {
		return value
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}

// New creates a provider for the PostgreSQL server described by opts.
func New(opts Options) *drivers.SQLProvider {
	return drivers.New("postgres", DSN(opts))
}
