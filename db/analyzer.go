package db

import (
	"regexp"
	"strings"
)

// QueryKind classifies whether a statement produces rows.
type QueryKind int

const (
	KindOther QueryKind = iota
	KindReturnsRows
)

// QueryAnalyzer decides whether a statement is row-returning. Dialect-aware
// implementations can be supplied per provider; KeywordAnalyzer is the
// default.
type QueryAnalyzer interface {
	Classify(sql string) QueryKind
}

// rowKeywords are leading keywords of row-returning statements across the
// supported engines.
var rowKeywords = map[string]struct{}{
	"SELECT":   {},
	"WITH":     {},
	"SHOW":     {},
	"DESCRIBE": {},
	"DESC":     {},
	"EXPLAIN":  {},
	"PRAGMA":   {},
	"VALUES":   {},
	"TABLE":    {},
	"CALL":     {},
}

var returningRE = regexp.MustCompile(`(?i)\bRETURNING\b`)

var leadingCommentRE = regexp.MustCompile(`^(?:\s*(?:--[^\n]*\n?|/\*(?s:.*?)\*/))*`)

// KeywordAnalyzer classifies statements by their leading keyword, with a
// RETURNING clause also marking DML as row-returning.
type KeywordAnalyzer struct{}

func (a KeywordAnalyzer) Classify(sql string) QueryKind {
	trimmed := strings.TrimSpace(leadingCommentRE.ReplaceAllString(sql, ""))
	if trimmed == "" {
		return KindOther
	}

	fields := strings.Fields(trimmed)
	first := strings.ToUpper(strings.TrimSuffix(fields[0], ";"))
	if _, ok := rowKeywords[first]; ok {
		return KindReturnsRows
	}

	if returningRE.MatchString(trimmed) {
		return KindReturnsRows
	}
	return KindOther
}
