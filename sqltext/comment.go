package sqltext

import "strings"

// IsCommentOnly reports whether every non-empty line of the statement is a
// line comment. Some drivers strip comments before execution and then
// reject the empty statement, so executors skip these entirely.
func IsCommentOnly(statement string) bool {
	for _, line := range strings.Split(strings.TrimSpace(statement), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "--") {
			return false
		}
	}
	return true
}
