package builtin

import (
	"strconv"
	"strings"
	"time"

	pcsv "carviz/internal/parser/csv"
	"carviz/pkg/records"
)

// Coerce converts string cells to typed values.
//
// Supported types: int, bool, date, string, float and decimal. "decimal"
// accepts a comma as the decimal separator ("45,5" -> 45.5); "float" does not.
// Values that are already numeric pass through, so Apply is idempotent.
type Coerce struct {
	Types  map[string]string // field -> type
	Layout string            // date layout

	// NullInvalid replaces values that fail to parse with nil (the missing
	// marker). When false, unparseable values are left unchanged.
	NullInvalid bool
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			switch typ {
			case "float", "decimal":
				r[field] = c.number(v, typ == "decimal")
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			switch typ {
			case "int":
				if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
					r[field] = i
				} else if c.NullInvalid {
					r[field] = nil
				}
			case "bool":
				if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
					r[field] = b
				} else if c.NullInvalid {
					r[field] = nil
				}
			case "date":
				if t, err := time.Parse(c.Layout, s); err == nil {
					r[field] = t
				} else if c.NullInvalid {
					r[field] = nil
				}
			case "string":
				// already string
			}
		}
	}
	return in
}

// number coerces v to float64. Strings are parsed (after swapping decimal
// commas when decimalComma is set); ints widen; other types are unparseable.
func (c Coerce) number(v any, decimalComma bool) any {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		s := n
		if decimalComma {
			s = strings.ReplaceAll(s, ",", ".")
		}
		if f, ok := pcsv.ParseNumber(s); ok {
			return f
		}
	}
	if c.NullInvalid {
		return nil
	}
	return v
}
