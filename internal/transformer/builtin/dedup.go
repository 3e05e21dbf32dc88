package builtin

import (
	"sort"
	"strconv"
	"strings"

	"carviz/pkg/records"
)

// Dedup policies.
const (
	KeepFirst    = "keep-first"
	KeepLast     = "keep-last"
	MostComplete = "most-complete"
)

// DeDup collapses records sharing the same key. Car exports sometimes list a
// trim twice (once per market); keying on the full car name keeps one row per
// car so the histogram and bar counts are not inflated.
//
// Records missing a key field are passed through after the winners, in input
// order. Run it after Normalize and Coerce so equal values compare equal.
type DeDup struct {
	Keys []string
	// Policy is KeepFirst, KeepLast (default) or MostComplete. MostComplete
	// picks the record with the most non-missing cells; ties go to the later one.
	Policy string
}

func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}
	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = KeepLast
	}

	type winner struct {
		index int
		score int
	}
	winners := make(map[string]winner, len(in))
	var loose []records.Record

	for i, r := range in {
		key, ok := d.key(r)
		if !ok {
			loose = append(loose, r)
			continue
		}
		prev, seen := winners[key]
		switch {
		case !seen:
			winners[key] = winner{index: i, score: completeness(r)}
		case policy == KeepFirst:
		case policy == MostComplete:
			if s := completeness(r); s >= prev.score {
				winners[key] = winner{index: i, score: s}
			}
		default:
			winners[key] = winner{index: i}
		}
	}

	idx := make([]int, 0, len(winners))
	for _, w := range winners {
		idx = append(idx, w.index)
	}
	sort.Ints(idx)

	out := make([]records.Record, 0, len(idx)+len(loose))
	for _, i := range idx {
		out = append(out, in[i])
	}
	return append(out, loose...)
}

// key joins the key fields with a unit separator; nil encodes as NUL.
func (d DeDup) key(r records.Record) (string, bool) {
	var b strings.Builder
	for i, k := range d.Keys {
		v, ok := r[k]
		if !ok {
			return "", false
		}
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := v.(type) {
		case nil:
			b.WriteByte(0)
		case string:
			b.WriteString(t)
		case float64:
			b.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
		default:
			return "", false
		}
	}
	return b.String(), true
}

func completeness(r records.Record) int {
	n := 0
	for _, v := range r {
		if s, ok := v.(string); v == nil || (ok && s == "") {
			continue
		}
		n++
	}
	return n
}
