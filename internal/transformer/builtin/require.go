// Package builtin contains the record transformers the cleaning stage is
// assembled from.
package builtin

import "carviz/pkg/records"

// Require drops records that lack a usable value in any of Fields. It is an
// opt-in step: the default car pipeline keeps every row so chart aggregates
// match the input.
type Require struct {
	Fields []string
}

// Apply filters in place and returns the surviving prefix of in.
func (r Require) Apply(in []records.Record) []records.Record {
	if len(r.Fields) == 0 {
		return in
	}
	out := in[:0]
	for _, rec := range in {
		if hasAll(rec, r.Fields) {
			out = append(out, rec)
		}
	}
	return out
}

func hasAll(rec records.Record, fields []string) bool {
	for _, f := range fields {
		switch v := rec[f].(type) {
		case nil:
			return false
		case string:
			if v == "" {
				return false
			}
		}
	}
	return true
}
