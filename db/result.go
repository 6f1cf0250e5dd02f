package db

import "github.com/termsql/termsql/sqltext"

type ResultType int

const (
	QueryResultType ResultType = iota
	NonQueryResultType
	MultiStatementResultType
)

// Result is the closed sum of execution outcomes. Call sites switch on
// Type() and assert rather than inspecting runtime types ad hoc.
type Result interface {
	Type() ResultType
}

// QueryResult is produced for statements classified as row-returning.
type QueryResult struct {
	Columns   []string
	Rows      [][]any
	RowCount  int
	Truncated bool
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

// NonQueryResult is produced for statements that return no rows.
type NonQueryResult struct {
	RowsAffected int64
}

func (result NonQueryResult) Type() ResultType {
	return NonQueryResultType
}

// StatementResult records the outcome of one statement within a batch.
// Exactly one of Result and Err is populated, matching Success.
type StatementResult struct {
	Statement sqltext.Statement
	Result    Result
	Success   bool
	Err       string
}

// MultiStatementResult collects per-statement outcomes of a batch. Results
// holds every statement attempted, including a failing one. ErrorIndex is
// -1 when the batch completed; Completed is false iff ErrorIndex is set.
type MultiStatementResult struct {
	Results    []StatementResult
	Completed  bool
	ErrorIndex int
}

func (result MultiStatementResult) Type() ResultType {
	return MultiStatementResultType
}

// HasError reports whether any statement failed.
func (result MultiStatementResult) HasError() bool {
	return result.ErrorIndex >= 0
}

// SuccessfulCount returns the number of statements that succeeded.
func (result MultiStatementResult) SuccessfulCount() int {
	count := 0
	for _, r := range result.Results {
		if r.Success {
			count++
		}
	}
	return count
}

// QueryResults returns the row sets of all successful row-returning
// statements, in execution order.
func (result MultiStatementResult) QueryResults() []QueryResult {
	var results []QueryResult
	for _, r := range result.Results {
		if !r.Success || r.Result == nil {
			continue
		}
		if qr, ok := r.Result.(QueryResult); ok {
			results = append(results, qr)
		}
	}
	return results
}
