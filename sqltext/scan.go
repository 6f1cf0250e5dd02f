package sqltext

// scan walks the buffer byte by byte, tracking string literal context, and
// reports each byte to visit along with whether it sits outside any string.
//
// A backslash inside an open quote escapes the following byte (both are
// consumed with the quote state unchanged). A doubled quote character inside
// the same quote type is an escaped quote, not a close-then-reopen. Quote
// characters themselves are reported as inside-string since they are part of
// string syntax.
func scan(sql string, visit func(i int, ch byte, outside bool)) {
	inSingle := false
	inDouble := false

	for i := 0; i < len(sql); {
		ch := sql[i]

		if ch == '\\' && i+1 < len(sql) && (inSingle || inDouble) {
			visit(i, ch, false)
			visit(i+1, sql[i+1], false)
			i += 2
			continue
		}

		if ch == '\'' && inSingle && i+1 < len(sql) && sql[i+1] == '\'' {
			visit(i, ch, false)
			visit(i+1, ch, false)
			i += 2
			continue
		}
		if ch == '"' && inDouble && i+1 < len(sql) && sql[i+1] == '"' {
			visit(i, ch, false)
			visit(i+1, ch, false)
			i += 2
			continue
		}

		switch {
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			visit(i, ch, false)
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			visit(i, ch, false)
		default:
			visit(i, ch, !inSingle && !inDouble)
		}
		i++
	}
}

// hasSemicolonOutsideStrings reports whether any semicolon sits outside
// string literals.
func hasSemicolonOutsideStrings(sql string) bool {
	found := false
	scan(sql, func(i int, ch byte, outside bool) {
		if ch == ';' && outside {
			found = true
		}
	})
	return found
}
