package db

import (
	"regexp"
	"strings"

	"github.com/termsql/termsql/sqltext"
)

var (
	txnBeginRE = regexp.MustCompile(`(?i)^\s*(BEGIN|START\s+TRANSACTION)(\s+WORK|\s+TRANSACTION)?\s*;?\s*$`)
	txnEndRE   = regexp.MustCompile(`(?i)^\s*(COMMIT|ROLLBACK)(\s+WORK|\s+TRANSACTION)?\s*;?\s*$`)
)

// IsTransactionStart reports whether the statement opens a transaction:
// BEGIN, BEGIN WORK, BEGIN TRANSACTION, or START TRANSACTION.
func IsTransactionStart(sql string) bool {
	return txnBeginRE.MatchString(sql)
}

// IsTransactionEnd reports whether the statement ends a transaction:
// COMMIT or ROLLBACK, with an optional WORK or TRANSACTION qualifier.
func IsTransactionEnd(sql string) bool {
	return txnEndRE.MatchString(sql)
}

// WrapInTransaction wraps SQL in BEGIN/COMMIT for atomic execution. Input
// that already starts with BEGIN or START is returned unchanged so it is
// never double-wrapped.
func WrapInTransaction(sql string) string {
	stripped := strings.TrimSpace(sql)
	if stripped == "" {
		return stripped
	}

	firstWord := strings.TrimSuffix(strings.ToUpper(strings.Fields(stripped)[0]), ";")
	if firstWord == "BEGIN" || firstWord == "START" {
		return stripped
	}

	if !strings.HasSuffix(stripped, ";") {
		stripped += ";"
	}
	return "BEGIN; " + stripped + " COMMIT;"
}

// TransactionState tracks whether the session is inside an explicit
// transaction. It is owned by a single executor and is not safe for
// concurrent mutation.
type TransactionState struct {
	inTransaction bool
}

// InTransaction reports whether a transaction is currently open.
func (s *TransactionState) InTransaction() bool {
	return s.inTransaction
}

// OnExecuted updates state after a successful execution. Multi-statement
// input is split and applied in order, so the last boundary statement wins.
// Unrelated statements leave the state unchanged.
func (s *TransactionState) OnExecuted(sql string) {
	for _, stmt := range sqltext.Split(sql) {
		switch {
		case IsTransactionStart(stmt.Text):
			s.inTransaction = true
		case IsTransactionEnd(stmt.Text):
			s.inTransaction = false
		}
	}
}

// Reset forces the state back to no open transaction. Called on disconnect.
func (s *TransactionState) Reset() {
	s.inTransaction = false
}
