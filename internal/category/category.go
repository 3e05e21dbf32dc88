// Package category derives the selectable dropdown labels for a nominal
// column, such as the car generation used by the chart filters.
package category

import (
	"fmt"
	"sort"
	"strconv"

	"carviz/pkg/records"
)

const (
	// All is the sentinel option that disables a filter.
	All = "All"
	// Unknown stands in for missing values and is never offered as an option.
	Unknown = "Unknown"
)

// Fill replaces missing values in field with unknown and converts every other
// value to its string form, in place. Rows without the field are filled too.
func Fill(rows []records.Record, field, unknown string) {
	for _, r := range rows {
		r[field] = Label(r[field], unknown)
	}
}

// Label returns the string form of v, or unknown when v is the missing marker.
func Label(v any, unknown string) string {
	switch x := v.(type) {
	case nil:
		return unknown
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

// Options returns the dropdown labels for field: distinct values, unknown
// removed, sorted ascending, with all prepended. The result always starts
// with all, even for an empty input.
func Options(rows []records.Record, field, all, unknown string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		l := Label(r[field], unknown)
		if l == unknown || l == all {
			continue
		}
		seen[l] = struct{}{}
	}
	out := make([]string, 0, len(seen)+1)
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return append([]string{all}, out...)
}
