package csv

import "strings"

// Byte order marks as they look after decoding: a UTF-8 BOM read as UTF-8,
// and the same three bytes read through a Latin-1 decoder.
var boms = []string{"\uFEFF", "\u00ef\u00bb\u00bf"}

// stripBOM removes a leading byte order mark from the first header cell.
func stripBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	for _, b := range boms {
		if rest, ok := strings.CutPrefix(headers[0], b); ok {
			headers[0] = rest
			break
		}
	}
	return headers
}
