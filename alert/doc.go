// Package alert scores the destructiveness of SQL so destructive
// operations can be gated behind a confirmation prompt.
//
// Classification is keyword based. String literals, quoted identifiers and
// comments are stripped before matching so that text such as
// SELECT '-- DELETE' never triggers an alert:
//
//	severity := alert.Classify("DELETE FROM users")   // SeverityDelete
//	alert.ShouldConfirm(alert.ModeConfirmWrite, severity) // true
//
// Multi-statement input is classified per statement and the maximum
// severity wins.
package alert
