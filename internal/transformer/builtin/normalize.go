package builtin

import (
	"strings"

	"carviz/pkg/records"
)

const nbspace = "\u00a0"

// Normalize trims string cells and turns no-break spaces, including the
// U+00C2 U+00A0 pair a wrong UTF-8/Latin-1 round trip leaves behind, into
// plain spaces. Cells that end up empty become nil.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			if s, ok := v.(string); ok {
				s = strings.ReplaceAll(s, "\u00c2"+nbspace, " ")
				s = strings.TrimSpace(strings.ReplaceAll(s, nbspace, " "))
				if s == "" {
					r[k] = nil
					continue
				}
				r[k] = s
			}
		}
	}
	return in
}
