package probe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeFieldName converts header text into a lowercase ASCII identifier:
// accents are stripped (NFD, drop Mn, NFC), spaces, dashes, dots and
// parentheses become single underscores and anything else is dropped.
// "Power (HP)" becomes "power_hp" and "Saját tömeg" becomes "sajat_tomeg".
// An identifier starting with a digit gets a "c_" prefix; an empty one is "col".
func NormalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	sep := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
		case r == '_' || r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' || r == '/':
			sep = true
		}
	}
	name := b.String()
	switch {
	case name == "":
		return "col"
	case name[0] >= '0' && name[0] <= '9':
		return "c_" + name
	}
	return name
}
