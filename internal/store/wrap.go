package store

// WrapRows computes how many physical terminal rows a logical line of the
// given byte length occupies at the given width, capped both by the per-line
// row cap and by the rows remaining in the current budget. An empty line
// still occupies one row.
//
// Backward pagination and screen rendering must call this with the same cap
// or the window they agree on will not fit the rows actually drawn.
func WrapRows(lineLen, cols, maxRows, rowsLeft int) int {
	rows := 1
	if lineLen > 0 {
		rows = lineLen / cols
		if lineLen%cols > 0 {
			rows++
		}
	}
	if rows > maxRows {
		rows = maxRows
	}
	if rows > rowsLeft {
		rows = rowsLeft
	}
	return rows
}
