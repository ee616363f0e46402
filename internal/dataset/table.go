// Package dataset loads uploaded CSV/XLSX spreadsheets into an in-memory
// table and selects the identity and metric columns for the pipeline.
package dataset

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bettercollective/embedforge/internal/model"
)

// Table is a parsed spreadsheet: a header row plus data rows.
type Table struct {
	Columns []string
	Rows    [][]string

	colIdx map[string]int
}

func newTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, eris.New("dataset: file has no rows")
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	cols := make([]string, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		cols[i] = col
		colIdx[col] = i
	}

	if len(records) < 2 {
		return nil, eris.New("dataset: file has no data rows")
	}

	return &Table{
		Columns: cols,
		Rows:    records[1:],
		colIdx:  colIdx,
	}, nil
}

// Load reads a spreadsheet by extension: .csv, .xlsx.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path, XLSXOptions{})
	default:
		return nil, eris.Errorf("dataset: unsupported file type %q", filepath.Ext(path))
	}
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// Cell returns the trimmed value of the named column in a row, or "" when
// the column is absent or the row is short.
func (t *Table) Cell(row []string, column string) string {
	idx, ok := t.colIdx[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Select validates the identity and metric columns and converts every data
// row into a RawRow, with all remaining columns preserved as extras in
// header order. The identity and metric columns are excluded from extras;
// renderers place the metric themselves.
func (t *Table) Select(identityCol, metricCol string) ([]model.RawRow, []string, error) {
	for _, col := range []string{identityCol, metricCol} {
		if !t.HasColumn(col) {
			return nil, nil, eris.Errorf("dataset: missing required column %q", col)
		}
	}

	var extraCols []string
	for _, col := range t.Columns {
		if col != identityCol && col != metricCol {
			extraCols = append(extraCols, col)
		}
	}

	rows := make([]model.RawRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		extras := make(map[string]string, len(extraCols))
		for _, col := range extraCols {
			extras[col] = t.Cell(row, col)
		}
		rows = append(rows, model.RawRow{
			Identifier: t.Cell(row, identityCol),
			MetricText: t.Cell(row, metricCol),
			Extras:     extras,
		})
	}

	return rows, extraCols, nil
}
