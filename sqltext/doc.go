// Package sqltext provides positional statement splitting for raw SQL buffers.
//
// The splitter segments a buffer into statements without parsing any SQL
// dialect. It tracks single and double quote context so that separators
// inside string literals are never treated as boundaries.
//
// # Splitting
//
//	statements := sqltext.Split("SELECT 1; SELECT 2")
//	for _, stmt := range statements {
//	    fmt.Println(stmt.Text, stmt.Start, stmt.End)
//	}
//
// Exactly one strategy is chosen per buffer:
//   - semicolons outside string literals, when any are present
//   - blank-line boundaries, when the buffer has no semicolons
//   - the whole trimmed buffer as a single statement otherwise
//
// # Cursor lookup
//
// StatementAt maps an editor cursor position to the statement under it:
//
//	stmt, ok := sqltext.StatementAt("SELECT 1;\nSELECT 2", 1, 0)
//
// Offsets returned by Split and StatementAt are byte positions into the
// original buffer, so callers can highlight or replace statements in place.
package sqltext
