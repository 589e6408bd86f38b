package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"canonry/internal/record"
)

// readCSV reads a delimited text file. The first row supplies field names;
// cell values stay strings — numeric strings still threshold correctly
// because label coercion parses through float64.
func readCSV(path string, comma rune) ([]*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // short rows pad, long rows truncate

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse %q: no header row", path)
	}
	return rowsToRecords(rows[0], rows[1:]), nil
}

// metadata sheets that spreadsheet exports commonly prepend.
var skipSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

// readXLSX reads the first non-metadata sheet of a workbook. The first
// row supplies field names.
func readXLSX(path string) ([]*record.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("parse %q: workbook has no sheets", path)
	}

	sheet := sheets[len(sheets)-1]
	for _, s := range sheets {
		if !skipSheets[strings.ToLower(s)] {
			sheet = s
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %q: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse %q: sheet %q is empty", path, sheet)
	}
	return rowsToRecords(rows[0], rows[1:]), nil
}

// rowsToRecords builds records from a header row and data rows. Short
// rows pad with empty strings so every record carries every field.
func rowsToRecords(header []string, rows [][]string) []*record.Record {
	recs := make([]*record.Record, 0, len(rows))
	for _, row := range rows {
		rec := record.New()
		for i, name := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			rec.Set(name, record.Str(cell))
		}
		recs = append(recs, rec)
	}
	return recs
}
