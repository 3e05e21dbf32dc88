package probe

import (
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	dateLayouts      = []string{"2006-01-02", "02.01.2006", "2.1.2006", "01/02/2006"}
	timestampLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "02.01.2006 15:04:05", "2006-01-02T15:04:05"}
)

// inferValues types a column of loaded cells. Numeric cells decide between
// integer and real; string cells go through inferTypeForColumn. A mix of both
// is text.
func inferValues(vals []any) string {
	var strs []string
	numbers, whole := 0, true
	for _, v := range vals {
		switch t := v.(type) {
		case float64:
			numbers++
			if t != math.Trunc(t) {
				whole = false
			}
		case string:
			strs = append(strs, t)
		}
	}
	switch {
	case numbers > 0 && len(strs) > 0:
		return "text"
	case numbers > 0 && whole:
		return "integer"
	case numbers > 0:
		return "real"
	default:
		return inferTypeForColumn(strs)
	}
}

// inferTypeForColumn guesses a SQL-friendly type among boolean, integer,
// real, date, timestamp and text. Every non-empty value must satisfy the
// narrower type.
func inferTypeForColumn(values []string) string {
	nonEmpty := nonEmptyTrimmed(values)
	if len(nonEmpty) == 0 {
		return "text"
	}
	if allMatch(nonEmpty, isInt) {
		return "integer"
	}
	if allMatch(nonEmpty, isBool) {
		return "boolean"
	}
	if allMatch(nonEmpty, func(s string) bool { return isInt(s) || isFloat(s) }) {
		return "real"
	}
	allDate, anyTime := true, false
	for _, v := range nonEmpty {
		ok, hasTime := parseDateOrTimestamp(v)
		if !ok {
			allDate = false
			break
		}
		anyTime = anyTime || hasTime
	}
	switch {
	case allDate && anyTime:
		return "timestamp"
	case allDate:
		return "date"
	}
	return "text"
}

func nonEmptyTrimmed(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "t", "f", "yes", "no", "y", "n", "igen", "nem":
		return true
	}
	return false
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return err == nil
}

// isFloat accepts decimal or scientific notation, including a decimal comma
// ("7,2"). Integers are not floats.
func isFloat(s string) bool {
	s = strings.TrimSpace(s)
	if isInt(s) {
		return false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// parseDateOrTimestamp tries timestamp layouts first, then dates.
func parseDateOrTimestamp(s string) (ok bool, hasTime bool) {
	st := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, st); err == nil {
			return true, true
		}
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, st); err == nil {
			return true, false
		}
	}
	return false, false
}
