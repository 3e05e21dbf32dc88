// Package records holds the in-memory row model shared by the parser, the
// transformers and the chart builder.
package records

// Record is a single row keyed by column name. Values are string, float64 or
// nil; nil is the missing marker and is distinct from "" and 0.
type Record map[string]any

// Table is an ordered set of records together with the header order they were
// read in. Columns is authoritative for iteration order; Record maps are not.
type Table struct {
	Columns []string
	Rows    []Record
}

// HasColumn reports whether name appears in the header.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}
