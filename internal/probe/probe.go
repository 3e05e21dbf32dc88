// Package probe summarizes a loaded table for debugging: the column list, a
// few sample rows, an inferred type per column and non-null counts. It also
// derives SQL-safe identifiers from header text for the snapshot store.
package probe

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"carviz/pkg/records"
)

// Column describes one column of a table.
type Column struct {
	Name    string // header text as in the file
	Field   string // NormalizeFieldName(Name)
	Type    string // integer, real, boolean, date, timestamp or text
	NonNull int
	Total   int
}

// Describe infers a type and counts non-missing values for every column, in
// header order. Field names are made unique with a numeric suffix.
func Describe(t *records.Table) []Column {
	out := make([]Column, 0, len(t.Columns))
	seen := make(map[string]int, len(t.Columns))
	for _, name := range t.Columns {
		vals := t.Column(name)
		c := Column{Name: name, Type: inferValues(vals), Total: len(vals)}
		for _, v := range vals {
			if v != nil {
				c.NonNull++
			}
		}
		f := NormalizeFieldName(name)
		if n := seen[f]; n > 0 {
			seen[f]++
			f = f + "_" + strconv.Itoa(n+1)
		} else {
			seen[f] = 1
		}
		c.Field = f
		out = append(out, c)
	}
	return out
}

// Dump writes a human-readable summary of t to w: columns, the first n rows
// of cols (every column when cols is empty), inferred types and non-null
// counts. It is diagnostic output, not a stable format.
func Dump(w io.Writer, t *records.Table, cols []string, n int) error {
	if len(cols) == 0 {
		cols = t.Columns
	}
	desc := Describe(t)
	byName := make(map[string]Column, len(desc))
	for _, c := range desc {
		byName[c.Name] = c
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Data columns: %q\n\nSample data:\n", t.Columns)
	fmt.Fprintf(tw, "\t%s\n", strings.Join(cols, "\t"))
	for i := 0; i < n && i < len(t.Rows); i++ {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = format(t.Rows[i][c])
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, strings.Join(cells, "\t"))
	}
	fmt.Fprintln(tw, "\nData types:")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\n", c, byName[c].Type)
	}
	fmt.Fprintln(tw, "\nNon-null counts:")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%d\n", c, byName[c].NonNull)
	}
	return tw.Flush()
}

func format(v any) string {
	switch t := v.(type) {
	case nil:
		return "NaN"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
