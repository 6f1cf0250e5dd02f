package sqltext

import (
	"regexp"
	"strings"
)

// Statement is one SQL command extracted from a larger buffer. Start is the
// byte offset of the first non-whitespace character of the statement in the
// original buffer and End is Start plus the length of Text. Statements are
// immutable once produced.
type Statement struct {
	Text  string
	Start int
	End   int
}

// blankLineRE matches two consecutive newlines with only whitespace between
// them. It is applied to the raw buffer, including string literals, so a
// blank line inside a multi-line literal can select the blank-line strategy
// for a buffer with no semicolons. The split itself stays quote-aware and
// will not break inside the literal.
var blankLineRE = regexp.MustCompile(`\n\s*\n`)

// Split segments a SQL buffer into statements with their source offsets.
//
// Exactly one strategy is selected per buffer, never mixed: semicolons
// outside string literals when present, else blank-line boundaries, else the
// whole trimmed buffer. Empty segments and trailing separators produce no
// statements. Comment-only statements are kept; filtering them is the
// executors' concern so that offsets stay cursor-accurate.
func Split(sql string) []Statement {
	if strings.TrimSpace(sql) == "" {
		return nil
	}

	if hasSemicolonOutsideStrings(sql) {
		return splitBySemicolons(sql)
	}

	if blankLineRE.MatchString(sql) {
		return splitByBlankLines(sql)
	}

	text := strings.TrimSpace(sql)
	start := len(sql) - len(strings.TrimLeft(sql, " \t\r\n"))
	return []Statement{{Text: text, Start: start, End: start + len(text)}}
}

func splitBySemicolons(sql string) []Statement {
	var statements []Statement
	stmtStart := 0

	scan(sql, func(i int, ch byte, outside bool) {
		if ch == ';' && outside {
			statements = appendStatement(statements, sql, stmtStart, i)
			stmtStart = i + 1
		}
	})

	return appendStatement(statements, sql, stmtStart, len(sql))
}

func splitByBlankLines(sql string) []Statement {
	var statements []Statement
	stmtStart := 0
	lineStart := 0
	prevLineEmpty := false

	scan(sql, func(i int, ch byte, outside bool) {
		if ch == '\n' && outside {
			lineEmpty := strings.TrimSpace(sql[lineStart:i]) == ""
			switch {
			case lineEmpty && prevLineEmpty:
				// run of blank lines collapses into one boundary
			case lineEmpty:
				statements = appendStatement(statements, sql, stmtStart, i)
				stmtStart = i + 1
			}
			prevLineEmpty = lineEmpty
			lineStart = i + 1
		} else if ch != ' ' && ch != '\t' {
			prevLineEmpty = false
		}
	})

	return appendStatement(statements, sql, stmtStart, len(sql))
}

// appendStatement trims the segment [from, to) and appends it as a Statement
// when non-empty, computing offsets relative to the original buffer.
func appendStatement(statements []Statement, sql string, from, to int) []Statement {
	segment := sql[from:to]
	text := strings.TrimSpace(segment)
	if text == "" {
		return statements
	}
	start := from + (len(segment) - len(strings.TrimLeft(segment, " \t\r\n")))
	return append(statements, Statement{Text: text, Start: start, End: start + len(text)})
}

// NormalizeForExecution rewrites blank-line-separated statements as a single
// semicolon-separated string, since drivers expect semicolons between
// statements. Buffers that already contain semicolons outside string
// literals are returned unchanged.
func NormalizeForExecution(sql string) string {
	if strings.TrimSpace(sql) == "" {
		return sql
	}

	if hasSemicolonOutsideStrings(sql) {
		return sql
	}

	if blankLineRE.MatchString(sql) {
		statements := splitByBlankLines(sql)
		if len(statements) > 1 {
			texts := make([]string, 0, len(statements))
			for _, stmt := range statements {
				texts = append(texts, stmt.Text)
			}
			return strings.Join(texts, "; ")
		}
	}

	return sql
}
