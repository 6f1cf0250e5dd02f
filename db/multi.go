package db

import "github.com/termsql/termsql/sqltext"

// StatementRunner is the subset of executor behavior the multi-statement
// executor needs. TransactionExecutor satisfies it.
type StatementRunner interface {
	Execute(sql string, maxRows int) (Result, error)
}

// MultiStatementExecutor runs several statements sequentially with
// stop-on-first-error, collecting a result per attempted statement.
type MultiStatementExecutor struct {
	runner StatementRunner
}

func NewMultiStatementExecutor(runner StatementRunner) *MultiStatementExecutor {
	return &MultiStatementExecutor{runner: runner}
}

// Execute splits the input, drops comment-only statements, and runs the
// rest strictly in order. On the first failure it records the failing
// statement and returns immediately; prior successes are preserved so the
// caller can render partial output. Partial failure is data, not an error.
func (e *MultiStatementExecutor) Execute(sql string, maxRows int) MultiStatementResult {
	var statements []sqltext.Statement
	for _, stmt := range sqltext.Split(sql) {
		if sqltext.IsCommentOnly(stmt.Text) {
			continue
		}
		statements = append(statements, stmt)
	}

	if len(statements) == 0 {
		return MultiStatementResult{Results: []StatementResult{}, Completed: true, ErrorIndex: -1}
	}

	results := make([]StatementResult, 0, len(statements))
	for i, stmt := range statements {
		result, err := e.runner.Execute(stmt.Text, maxRows)
		if err != nil {
			results = append(results, StatementResult{
				Statement: stmt,
				Success:   false,
				Err:       err.Error(),
			})
			return MultiStatementResult{
				Results:    results,
				Completed:  false,
				ErrorIndex: i,
			}
		}
		results = append(results, StatementResult{
			Statement: stmt,
			Result:    result,
			Success:   true,
		})
	}

	return MultiStatementResult{
		Results:    results,
		Completed:  true,
		ErrorIndex: -1,
	}
}
