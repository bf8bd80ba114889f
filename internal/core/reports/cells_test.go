package reports

import (
	"testing"
	"time"

	"report-service/internal/core/spreadsheet"
)

func TestStringFrom(t *testing.T) {
	cases := []struct {
		name     string
		cell     spreadsheet.Cell
		expected string
	}{
		{"text passes through", spreadsheet.TextCell("JKT01"), "JKT01"},
		{"number renders as decimal text", spreadsheet.NumberCell(42), "42"},
		{"fractional number keeps its digits", spreadsheet.NumberCell(12.5), "12.5"},
		{"absent yields empty", spreadsheet.Cell{}, ""},
	}
	for _, tc := range cases {
		if got := StringFrom(tc.cell); got != tc.expected {
			t.Errorf("%s: StringFrom = %q, expected %q", tc.name, got, tc.expected)
		}
	}
}

func TestLowerStringFrom(t *testing.T) {
	if got := LowerStringFrom(spreadsheet.TextCell("Treatment")); got != "treatment" {
		t.Errorf("LowerStringFrom = %q, expected %q", got, "treatment")
	}
}

func TestNumberFrom(t *testing.T) {
	cases := []struct {
		name     string
		cell     spreadsheet.Cell
		expected float64
	}{
		{"number passes through", spreadsheet.NumberCell(310000), 310000},
		{"decimal text parses", spreadsheet.TextCell("12.5"), 12.5},
		{"padded text parses", spreadsheet.TextCell(" 3 "), 3},
		{"non-numeric yields zero", spreadsheet.TextCell("abc"), 0},
		{"empty yields zero", spreadsheet.TextCell(""), 0},
		{"absent yields zero", spreadsheet.Cell{}, 0},
	}
	for _, tc := range cases {
		if got := NumberFrom(tc.cell); got != tc.expected {
			t.Errorf("%s: NumberFrom = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestAmountFromRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		cell     spreadsheet.Cell
		expected float64
	}{
		{"currency prefix and grouping", spreadsheet.TextCell("Rp310.000"), 310000},
		{"grouping only", spreadsheet.TextCell("310.000"), 310000},
		{"plain number", spreadsheet.NumberCell(310000), 310000},
		{"bare digits", spreadsheet.TextCell("310000"), 310000},
		{"all non-digit yields zero", spreadsheet.TextCell("Rp"), 0},
		{"empty yields zero", spreadsheet.TextCell(""), 0},
		{"absent yields zero", spreadsheet.Cell{}, 0},
	}
	for _, tc := range cases {
		if got := AmountFrom(tc.cell); got != tc.expected {
			t.Errorf("%s: AmountFrom = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestParseDate(t *testing.T) {
	expected := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	got, ok := ParseDate(spreadsheet.TextCell("15/01/2024"))
	if !ok || !got.Equal(expected) {
		t.Errorf("ParseDate(15/01/2024) = %v, %v; expected %v", got, ok, expected)
	}

	got, ok = ParseDate(spreadsheet.TextCell("15/01/2024 10:30:00"))
	if !ok || !got.Equal(expected) {
		t.Errorf("ParseDate with time component = %v, %v; expected the time discarded", got, ok)
	}

	invalid := []spreadsheet.Cell{
		spreadsheet.TextCell("2024-01-15"),
		spreadsheet.TextCell("31/02"),
		spreadsheet.TextCell(""),
		spreadsheet.NumberCell(45000),
		{},
	}
	for _, cell := range invalid {
		if _, ok := ParseDate(cell); ok {
			t.Errorf("ParseDate(%+v) succeeded, expected no value", cell)
		}
	}
}

func TestFormatIDR(t *testing.T) {
	if got := FormatIDR(310000); got != "Rp310.000" {
		t.Errorf("FormatIDR(310000) = %q, expected %q", got, "Rp310.000")
	}
	if got := FormatIDR(0); got != "Rp0" {
		t.Errorf("FormatIDR(0) = %q, expected %q", got, "Rp0")
	}
}
