package alert

import (
	"regexp"
	"strings"

	"github.com/termsql/termsql/sqltext"
)

// Severity classifies how destructive a query is.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityWrite
	SeverityDelete
)

func (s Severity) String() string {
	switch s {
	case SeverityWrite:
		return "write"
	case SeverityDelete:
		return "delete"
	default:
		return "none"
	}
}

// Mode is the user-configured confirmation threshold.
type Mode int

const (
	ModeOff Mode = iota
	ModeConfirmDelete
	ModeConfirmWrite
)

func (m Mode) String() string {
	switch m {
	case ModeConfirmDelete:
		return "delete"
	case ModeConfirmWrite:
		return "write"
	default:
		return "off"
	}
}

// ParseMode parses a user-provided alert mode. It accepts the numeric
// levels and the spellings used by the alert setting.
func ParseMode(raw string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "off", "none", "disable", "disabled":
		return ModeOff, true
	case "1", "delete", "destructive", "danger":
		return ModeConfirmDelete, true
	case "2", "write", "writes", "edit", "update":
		return ModeConfirmWrite, true
	default:
		return ModeOff, false
	}
}

var (
	deleteRE = regexp.MustCompile(`(?i)\bDELETE\b`)
	writeRE  = regexp.MustCompile(`(?i)\b(?:CREATE|ALTER|DROP|TRUNCATE|RENAME|INSERT|UPDATE|MERGE|REPLACE|UPSERT|DELETE)\b`)

	singleQuoteRE  = regexp.MustCompile(`'[^']*'`)
	doubleQuoteRE  = regexp.MustCompile(`"[^"]*"`)
	backtickRE     = regexp.MustCompile("`[^`]*`")
	bracketRE      = regexp.MustCompile(`\[[^\]]*]`)
	lineCommentRE  = regexp.MustCompile(`--[^\n]*`)
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Classify returns the maximum severity across all statements in the
// buffer. It short-circuits on the first DELETE since nothing exceeds it.
func Classify(sql string) Severity {
	if sql == "" {
		return SeverityNone
	}

	highest := SeverityNone
	for _, stmt := range sqltext.Split(sql) {
		severity := classifyStatement(stmt.Text)
		if severity == SeverityDelete {
			return severity
		}
		if severity > highest {
			highest = severity
		}
	}
	return highest
}

func classifyStatement(statement string) Severity {
	cleaned := stripCommentsAndLiterals(statement)
	if strings.TrimSpace(cleaned) == "" {
		return SeverityNone
	}
	if deleteRE.MatchString(cleaned) {
		return SeverityDelete
	}
	if writeRE.MatchString(cleaned) {
		return SeverityWrite
	}
	return SeverityNone
}

// stripCommentsAndLiterals removes comments and replaces quoted spans with
// empty same-kind placeholders so keyword boundaries are unaffected.
func stripCommentsAndLiterals(sql string) string {
	cleaned := lineCommentRE.ReplaceAllString(sql, "")
	cleaned = blockCommentRE.ReplaceAllString(cleaned, "")
	cleaned = singleQuoteRE.ReplaceAllString(cleaned, "''")
	cleaned = doubleQuoteRE.ReplaceAllString(cleaned, `""`)
	cleaned = backtickRE.ReplaceAllString(cleaned, "``")
	cleaned = bracketRE.ReplaceAllString(cleaned, "[]")
	return cleaned
}

// ShouldConfirm reports whether the given severity should prompt the user
// under the given mode.
func ShouldConfirm(mode Mode, severity Severity) bool {
	switch mode {
	case ModeConfirmDelete:
		return severity == SeverityDelete
	case ModeConfirmWrite:
		return severity == SeverityWrite || severity == SeverityDelete
	default:
		return false
	}
}
