// Package spreadsheet decodes an uploaded workbook blob into loosely-typed
// rows. Only the first sheet is read; each row is a mapping from column header
// to a cell that is absent, text, or a number. Absent cells under a known
// header materialize as empty-text cells, which the coercion layer relies on.
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// CellKind discriminates the Cell sum type.
type CellKind int

const (
	Absent CellKind = iota
	Text
	Number
)

// Cell is one loosely-typed spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell builds a text cell.
func TextCell(s string) Cell {
	return Cell{Kind: Text, Text: s}
}

// NumberCell builds a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: Number, Number: f}
}

// Row maps a column header to its cell. Indexing a missing header yields the
// zero Cell, whose kind is Absent.
type Row map[string]Cell

// Sheet is the decoded first sheet of a workbook.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// Decode reads the first sheet of an .xlsx or .xls blob. The first row is
// taken as the header row; every following row becomes a header-keyed Row.
func Decode(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	rows, err := readRows(data)
	if err != nil {
		return nil, err
	}
	return buildSheet(rows), nil
}

func readRows(data []byte) ([][]string, error) {
	// try xlsx first
	if f, err := excelize.OpenReader(bytes.NewReader(data)); err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("the workbook contains no sheets")
		}
		return f.GetRows(sheets[0])
	}

	// try legacy xls
	if workbook, err := xls.OpenReader(bytes.NewReader(data)); err == nil {
		if len(workbook.GetSheets()) == 0 {
			return nil, fmt.Errorf("the .xls workbook contains no sheets")
		}
		sheet, err := workbook.GetSheet(0)
		if err != nil {
			return nil, fmt.Errorf("failed to read the first .xls sheet: %w", err)
		}
		var allRows [][]string
		for _, row := range sheet.GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			allRows = append(allRows, cells)
		}
		return allRows, nil
	}

	return nil, fmt.Errorf("unsupported workbook file format")
}

func buildSheet(rows [][]string) *Sheet {
	if len(rows) == 0 {
		return &Sheet{}
	}

	headers := rows[0]
	sheet := &Sheet{Headers: headers}

	for _, raw := range rows[1:] {
		row := make(Row, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if _, ok := row[header]; ok {
				// duplicated header; first column wins
				continue
			}
			value := ""
			if i < len(raw) {
				value = raw[i]
			}
			row[header] = TextCell(value)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
