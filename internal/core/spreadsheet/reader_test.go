package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFirstSheet(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"Clinic Code", "Payment Method", "Amount"},
		{"JKT01", "Cash", 310000},
		{"BDG02"}, // trailing cells absent
	})

	sheet, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	expectedHeaders := []string{"Clinic Code", "Payment Method", "Amount"}
	if len(sheet.Headers) != len(expectedHeaders) {
		t.Fatalf("headers = %v", sheet.Headers)
	}
	for i, h := range expectedHeaders {
		if sheet.Headers[i] != h {
			t.Errorf("header %d = %q, expected %q", i, sheet.Headers[i], h)
		}
	}

	if len(sheet.Rows) != 2 {
		t.Fatalf("rows = %d, expected 2", len(sheet.Rows))
	}

	first := sheet.Rows[0]
	if first["Clinic Code"].Text != "JKT01" {
		t.Errorf("clinic cell = %+v", first["Clinic Code"])
	}
	if first["Amount"].Kind != Text || first["Amount"].Text != "310000" {
		t.Errorf("amount cell = %+v, expected the rendered numeric text", first["Amount"])
	}

	// absent cells under a known header materialize as empty text, not a
	// missing key
	second := sheet.Rows[1]
	if cell, ok := second["Amount"]; !ok || cell.Kind != Text || cell.Text != "" {
		t.Errorf("absent cell = %+v, expected an empty text cell", cell)
	}

	// indexing an unknown header yields the zero (absent) cell
	if cell := second["No Such Column"]; cell.Kind != Absent {
		t.Errorf("unknown header cell = %+v, expected absent", cell)
	}
}

func TestDecodeEmptyWorkbook(t *testing.T) {
	data := workbookBytes(t, nil)

	sheet, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(sheet.Headers) != 0 || len(sheet.Rows) != 0 {
		t.Errorf("sheet = %+v, expected empty", sheet)
	}
}

func TestDecodeRejectsUnsupportedBlob(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not a workbook"))
	if err == nil {
		t.Fatal("expected an error for an unsupported blob")
	}
}
