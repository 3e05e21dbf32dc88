package chart

import (
	"fmt"
	"strings"
)

// NeutralColor is used for rows a filter does not select.
const NeutralColor = "lightgray"

// Filter is one chart's dropdown-driven category filter. Each filterable
// chart owns its own Filter; there is no shared state between charts.
type Filter struct {
	Name    string   // parameter name, e.g. "Select1"
	Field   string   // column tested by the predicate
	All     string   // option that selects every row
	Unknown string   // value of rows without a category; never colored
	Options []string // dropdown entries, All first
	Label   string   // text next to the dropdown
	Neutral string   // color of unselected rows; NeutralColor when empty
}

// Param declares the dropdown variable, initialized to All.
func (f Filter) Param() Param {
	return Param{
		Name:  f.Name,
		Value: f.All,
		Bind: Binding{
			Input:   "select",
			Options: append([]string(nil), f.Options...),
			Name:    f.Label,
		},
	}
}

// Expr is the client-side predicate: the row keeps its category color when
// the parameter is All or equals the row's field value. Rows holding Unknown
// always take the neutral color.
func (f Filter) Expr() string {
	sel := fmt.Sprintf("%s == %s || datum[%s] == %s",
		f.Name, quote(f.All), quote(f.Field), f.Name)
	if f.Unknown == "" {
		return sel
	}
	return fmt.Sprintf("(%s) && datum[%s] != %s", sel, quote(f.Field), quote(f.Unknown))
}

func (f Filter) neutral() string {
	if f.Neutral == "" {
		return NeutralColor
	}
	return f.Neutral
}

// quote renders s as a single-quoted Vega expression string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
