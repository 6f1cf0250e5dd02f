package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedRunner fails on specific statements and records call order.
type scriptedRunner struct {
	failOn   map[string]error
	executed []string
}

func (r *scriptedRunner) Execute(sql string, maxRows int) (Result, error) {
	r.executed = append(r.executed, sql)
	if err, ok := r.failOn[sql]; ok {
		return nil, err
	}
	return NonQueryResult{RowsAffected: 1}, nil
}

func TestMultiStatementExecutorRunsInOrder(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{failOn: map[string]error{}}
	executor := NewMultiStatementExecutor(runner)

	result := executor.Execute("INSERT INTO t VALUES (1); INSERT INTO t VALUES (2); SELECT 1", 100)
	require.True(t, result.Completed)
	require.Equal(t, -1, result.ErrorIndex)
	require.Len(t, result.Results, 3)
	require.Equal(t, []string{
		"INSERT INTO t VALUES (1)",
		"INSERT INTO t VALUES (2)",
		"SELECT 1",
	}, runner.executed)
}

func TestMultiStatementExecutorStopsOnFirstError(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{failOn: map[string]error{
		"BAD SQL": errors.New("syntax error"),
	}}
	executor := NewMultiStatementExecutor(runner)

	result := executor.Execute("INSERT INTO t VALUES (1); BAD SQL; SELECT 1", 0)
	require.False(t, result.Completed)
	require.Equal(t, 1, result.ErrorIndex)
	require.Len(t, result.Results, 2, "the failing statement is recorded, later ones are not attempted")
	require.True(t, result.Results[0].Success)
	require.False(t, result.Results[1].Success)
	require.Equal(t, "syntax error", result.Results[1].Err)
	require.Equal(t, 1, result.SuccessfulCount())
	require.Len(t, runner.executed, 2)
}

func TestMultiStatementExecutorSkipsCommentOnly(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{failOn: map[string]error{}}
	executor := NewMultiStatementExecutor(runner)

	result := executor.Execute("-- just a comment", 0)
	require.True(t, result.Completed)
	require.Equal(t, -1, result.ErrorIndex)
	require.Empty(t, result.Results)
	require.Empty(t, runner.executed)

	result = executor.Execute("-- setup\nINSERT INTO t VALUES (1);\n-- teardown", 0)
	require.True(t, result.Completed)
	require.Len(t, result.Results, 1)
}

func TestMultiStatementResultQueryResults(t *testing.T) {
	t.Parallel()

	result := MultiStatementResult{
		Results: []StatementResult{
			{Success: true, Result: QueryResult{Columns: []string{"a"}, RowCount: 1}},
			{Success: true, Result: NonQueryResult{RowsAffected: 2}},
			{Success: false, Err: "boom"},
		},
		Completed:  false,
		ErrorIndex: 2,
	}
	require.True(t, result.HasError())
	require.Len(t, result.QueryResults(), 1)
	require.Equal(t, 2, result.SuccessfulCount())
}
