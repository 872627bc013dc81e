package analytics

// Table is a parsed tabular upload: a header row plus rows of untyped string
// cells. Parsing raw bytes (CSV/XLSX) happens at the HTTP boundary; the
// pipeline only ever sees this shape.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at (row, col), tolerating ragged rows from sloppy
// exports.
func (t *Table) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}
