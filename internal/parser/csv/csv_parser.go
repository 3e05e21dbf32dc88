// Package csv implements the table loader for delimiter-separated input. It
// decodes legacy single-byte encodings on the fly, keeps header names as they
// appear in the file and optionally infers numeric columns the way a
// dataframe reader would.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"carviz/pkg/records"
)

// ErrMissingColumn is returned when a required column is absent from the
// header row.
var ErrMissingColumn = errors.New("missing column")

// Options configures the CSV parser behavior. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding names the byte encoding of the input: "utf-8" (default),
	// "latin1"/"iso-8859-1" or "windows-1252".
	Encoding string

	// TrimSpace trims leading/trailing ASCII spaces from each field value.
	TrimSpace bool

	// NormalizeHeaders lowercases header names and replaces spaces with
	// underscores. Off by default: columns keep their exact header text.
	NormalizeHeaders bool

	// HeaderMap maps source header names to canonical keys. Applied before
	// NormalizeHeaders; mapped names are used verbatim.
	HeaderMap map[string]string

	// InferNumbers converts a column to float64 when every non-empty value in
	// it parses as a number.
	InferNumbers bool

	// LazyQuotes reads a bare '"' inside an unquoted field as a literal
	// character instead of rejecting the row.
	LazyQuotes bool
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// NewDecodingReader wraps r so that bytes in the named encoding are delivered
// as UTF-8. An empty name or "utf-8" returns r unchanged.
func NewDecodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// ParseTable consumes the whole input and returns the table along with the
// number of rows that were skipped due to parse errors or surplus fields.
// A missing or unreadable header is a hard error.
func (p *Parser) ParseTable(r io.Reader) (*records.Table, int, error) {
	dr, err := NewDecodingReader(r, p.opt.Encoding)
	if err != nil {
		return nil, 0, err
	}

	cr := csv.NewReader(dr)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = p.opt.LazyQuotes

	h, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, 0, fmt.Errorf("read csv header: empty input")
		}
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)

	t := &records.Table{Columns: headers}
	var skipped int
	limit := 400
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < limit {
				// Soft-fail this row and continue.
				log.Printf("Skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}
		// Short rows are padded with missing values; only surplus fields
		// make a row unreadable.
		if len(row) > len(headers) {
			if skipped < limit {
				log.Printf("Skipping row %d: too many fields (expected %d, got %d)", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(headers))
		for i, col := range headers {
			if i >= len(row) {
				rec[col] = nil
				continue
			}
			val := row[i]
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[col] = emptyToNil(val)
		}
		t.Rows = append(t.Rows, rec)
	}

	if p.opt.InferNumbers {
		inferNumericColumns(t)
	}
	return t, skipped, nil
}

// Parse implements parser.Parser for callers that only need the rows.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	t, skipped, err := p.ParseTable(r)
	if err != nil {
		return nil, skipped, err
	}
	return t.Rows, skipped, nil
}

// RequireColumns returns ErrMissingColumn, wrapped with the first absent
// name, when t lacks any of names.
func RequireColumns(t *records.Table, names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return fmt.Errorf("%w: %q", ErrMissingColumn, n)
		}
	}
	return nil
}

// ParseNumber parses s as a finite float64. Hex literals, NaN and Inf are
// rejected so that free text such as "Infiniti" never reads as a number.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	ls := strings.ToLower(s)
	if strings.HasPrefix(ls, "0x") || strings.HasPrefix(ls, "-0x") || strings.HasPrefix(ls, "+0x") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// inferNumericColumns converts every column whose non-nil values all parse as
// numbers. Columns with no values stay untouched.
func inferNumericColumns(t *records.Table) {
	for _, col := range t.Columns {
		seen := false
		numeric := true
		for _, r := range t.Rows {
			v := r[col]
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				continue
			}
			seen = true
			if _, ok := ParseNumber(s); !ok {
				numeric = false
				break
			}
		}
		if !seen || !numeric {
			continue
		}
		for _, r := range t.Rows {
			if s, ok := r[col].(string); ok {
				f, _ := ParseNumber(s)
				r[col] = f
			}
		}
	}
}

// emptyToNil converts an empty string to nil; all other values are returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces column keys using HeaderMap (when provided) and,
// if requested, simple normalization (lowercase, spaces to underscores). It
// also strips a UTF-8 BOM from the first cell if present. Empty or duplicate
// names fall back to "col_N".
func normalizeHeaders(h []string, opt Options) []string {
	h = stripBOM(h)
	res := make([]string, len(h))
	seen := make(map[string]struct{}, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if m, ok := opt.HeaderMap[c]; ok {
			c = m
		} else if opt.NormalizeHeaders {
			c = strings.ReplaceAll(strings.ToLower(c), " ", "_")
		}
		if _, dup := seen[c]; c == "" || dup {
			c = fmt.Sprintf("col_%d", i)
		}
		seen[c] = struct{}{}
		res[i] = c
	}
	return res
}
