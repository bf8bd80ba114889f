package reports

import (
	"strconv"
	"strings"
	"time"

	"report-service/internal/core/spreadsheet"
)

// Coercion helpers for loosely-typed cells. All of them are total: a cell
// that cannot be coerced yields the documented fallback, never an error.

// StringFrom passes text through and renders numeric cells in standard
// decimal notation. Anything else yields "".
func StringFrom(c spreadsheet.Cell) string {
	switch c.Kind {
	case spreadsheet.Text:
		return c.Text
	case spreadsheet.Number:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return ""
}

// LowerStringFrom is StringFrom case-folded, for case-insensitive category
// matching.
func LowerStringFrom(c spreadsheet.Cell) string {
	return strings.ToLower(StringFrom(c))
}

// NumberFrom passes numbers through and parses text as base-10 decimal.
// Non-numeric or empty text yields 0.
func NumberFrom(c spreadsheet.Cell) float64 {
	switch c.Kind {
	case spreadsheet.Number:
		return c.Number
	case spreadsheet.Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// AmountFrom coerces a currency-formatted cell to a whole-unit amount.
// Numbers pass through; text has every non-digit rune stripped before being
// parsed as an integer, so "Rp310.000" and "310.000" both coerce to 310000.
// Any embedded separator is treated as thousands grouping: the configured
// currency carries no fractional sub-units. Empty or all-non-digit text
// yields 0.
func AmountFrom(c spreadsheet.Cell) float64 {
	switch c.Kind {
	case spreadsheet.Number:
		return c.Number
	case spreadsheet.Text:
		var b strings.Builder
		b.Grow(len(c.Text))
		for _, r := range c.Text {
			if r >= '0' && r <= '9' {
				b.WriteRune(r)
			}
		}
		digits := b.String()
		if digits == "" {
			return 0
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0
		}
		return float64(n)
	}
	return 0
}

// ParseDate parses a DD/MM/YYYY text cell, discarding any time component
// after the first space. The returned date carries no time-of-day semantics.
func ParseDate(c spreadsheet.Cell) (time.Time, bool) {
	if c.Kind != spreadsheet.Text {
		return time.Time{}, false
	}
	s := strings.TrimSpace(c.Text)
	if i := strings.IndexByte(s, ' '); i != -1 {
		s = s[:i]
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
