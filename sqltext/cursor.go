package sqltext

import "strings"

// StatementAt returns the statement under the cursor at the given 0-based
// row and column. When the cursor sits between statements the nearest
// preceding statement is returned; a cursor before the first statement
// returns the first. The second return is false only when the buffer holds
// no statements at all.
func StatementAt(sql string, row, col int) (Statement, bool) {
	if sql == "" {
		return Statement{}, false
	}

	lines := strings.Split(sql, "\n")
	var offset int
	if row >= len(lines) {
		// cursor past the end of the buffer
		offset = len(sql)
	} else {
		for i := 0; i < row; i++ {
			offset += len(lines[i]) + 1
		}
		offset += col
	}

	statements := Split(sql)
	if len(statements) == 0 {
		return Statement{}, false
	}

	for _, stmt := range statements {
		if stmt.Start <= offset && offset <= stmt.End {
			return stmt, true
		}
	}

	for i := len(statements) - 1; i >= 0; i-- {
		if offset >= statements[i].Start {
			return statements[i], true
		}
	}

	return statements[0], true
}
