package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTransactionStart(t *testing.T) {
	t.Parallel()

	for _, sql := range []string{
		"BEGIN",
		"begin",
		"BEGIN;",
		"BEGIN WORK",
		"BEGIN TRANSACTION",
		"START TRANSACTION",
		"start transaction;",
		"  BEGIN  ",
	} {
		require.True(t, IsTransactionStart(sql), sql)
	}

	for _, sql := range []string{
		"COMMIT",
		"SELECT 1",
		"BEGIN SELECT", // not a bare transaction start
		"START",
		"BEGINNING",
	} {
		require.False(t, IsTransactionStart(sql), sql)
	}
}

func TestIsTransactionEnd(t *testing.T) {
	t.Parallel()

	for _, sql := range []string{
		"COMMIT",
		"commit;",
		"COMMIT WORK",
		"COMMIT TRANSACTION",
		"ROLLBACK",
		"ROLLBACK WORK",
		"rollback transaction",
	} {
		require.True(t, IsTransactionEnd(sql), sql)
	}

	for _, sql := range []string{
		"BEGIN",
		"SELECT 1",
		"COMMITTED",
		"ROLLBACK TO SAVEPOINT sp1",
	} {
		require.False(t, IsTransactionEnd(sql), sql)
	}
}

func TestTransactionState(t *testing.T) {
	t.Parallel()

	var state TransactionState
	require.False(t, state.InTransaction())

	state.OnExecuted("BEGIN")
	require.True(t, state.InTransaction())

	state.OnExecuted("INSERT INTO t VALUES (1)")
	require.True(t, state.InTransaction(), "unrelated statements leave state unchanged")

	state.OnExecuted("COMMIT")
	require.False(t, state.InTransaction())

	// later statements in one call win
	state.OnExecuted("BEGIN; INSERT INTO t VALUES (1); COMMIT")
	require.False(t, state.InTransaction())

	state.OnExecuted("SELECT 1; BEGIN")
	require.True(t, state.InTransaction())

	state.Reset()
	require.False(t, state.InTransaction())
}

func TestWrapInTransaction(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		Name string
		SQL  string
		Exp  string
	}{
		{
			Name: "wraps plain statement",
			SQL:  "INSERT INTO t VALUES (1)",
			Exp:  "BEGIN; INSERT INTO t VALUES (1); COMMIT;",
		},
		{
			Name: "keeps existing trailing semicolon",
			SQL:  "INSERT INTO t VALUES (1);",
			Exp:  "BEGIN; INSERT INTO t VALUES (1); COMMIT;",
		},
		{
			Name: "already wrapped with BEGIN",
			SQL:  "BEGIN; INSERT INTO t VALUES (1); COMMIT;",
			Exp:  "BEGIN; INSERT INTO t VALUES (1); COMMIT;",
		},
		{
			Name: "already wrapped with START",
			SQL:  "START TRANSACTION; SELECT 1; COMMIT;",
			Exp:  "START TRANSACTION; SELECT 1; COMMIT;",
		},
		{
			Name: "empty stays empty",
			SQL:  "   ",
			Exp:  "",
		},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.Exp, WrapInTransaction(tc.SQL))
		})
	}
}

func TestKeywordAnalyzer(t *testing.T) {
	t.Parallel()

	analyzer := KeywordAnalyzer{}

	for _, sql := range []string{
		"SELECT 1",
		"select * from t",
		"WITH cte AS (SELECT 1) SELECT * FROM cte",
		"SHOW TABLES",
		"DESCRIBE t",
		"EXPLAIN SELECT 1",
		"PRAGMA table_info(t)",
		"VALUES (1), (2)",
		"-- comment\nSELECT 1",
		"/* comment */ SELECT 1",
		"INSERT INTO t VALUES (1) RETURNING id",
	} {
		require.Equal(t, KindReturnsRows, analyzer.Classify(sql), sql)
	}

	for _, sql := range []string{
		"INSERT INTO t VALUES (1)",
		"UPDATE t SET a = 1",
		"DELETE FROM t",
		"CREATE TABLE t (id INT)",
		"BEGIN",
		"",
		"-- only a comment",
	} {
		require.Equal(t, KindOther, analyzer.Classify(sql), sql)
	}
}
