package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTestCSV(t, "State,Probability (%)\nCalifornia,33.5%\nTexas,28.1%\n")

	tbl, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"State", "Probability (%)"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "California", tbl.Cell(tbl.Rows[0], "State"))
	assert.Equal(t, "28.1%", tbl.Cell(tbl.Rows[1], "Probability (%)"))
}

func TestLoadCSV_TrimsHeaderWhitespace(t *testing.T) {
	path := writeTestCSV(t, " State , Value \nOhio,5\n")

	tbl, err := LoadCSV(path)
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn("State"))
	assert.True(t, tbl.HasColumn("Value"))
}

func TestLoadCSV_Empty(t *testing.T) {
	path := writeTestCSV(t, "")
	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	path := writeTestCSV(t, "State,Value\n")
	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open csv")
}

func TestLoadXLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"State", "Score"},
			{"Maine", "7.2"},
		},
	})

	tbl, err := LoadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"State", "Score"}, tbl.Columns)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Maine", tbl.Cell(tbl.Rows[0], "State"))
}

func TestLoadXLSX_SheetName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"First":  {{"a"}, {"1"}},
		"Second": {{"State", "V"}, {"Iowa", "3"}},
	})

	tbl, err := LoadXLSX(path, XLSXOptions{SheetName: "Second"})
	require.NoError(t, err)
	assert.Equal(t, []string{"State", "V"}, tbl.Columns)
}

func TestLoadXLSX_SheetNotFound(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{"Only": {{"a"}, {"1"}}})
	_, err := LoadXLSX(path, XLSXOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_DispatchesByExtension(t *testing.T) {
	csvPath := writeTestCSV(t, "State,V\nOhio,1\n")
	tbl, err := Load(csvPath)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 1)

	_, err = Load("data.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestSelect(t *testing.T) {
	path := writeTestCSV(t,
		"State,Odds,Probability (%),Elevation\nCalifornia,+120,33.5%,2900\nTexas,+150,28.1%,1700\n")
	tbl, err := LoadCSV(path)
	require.NoError(t, err)

	rows, extraCols, err := tbl.Select("State", "Probability (%)")
	require.NoError(t, err)

	// Identity and metric columns stay out of the extras; the rest keep
	// header order.
	assert.Equal(t, []string{"Odds", "Elevation"}, extraCols)
	assert.NotContains(t, rows[0].Extras, "Probability (%)")
	assert.NotContains(t, rows[0].Extras, "State")

	require.Len(t, rows, 2)
	assert.Equal(t, "California", rows[0].Identifier)
	assert.Equal(t, "33.5%", rows[0].MetricText)
	assert.Equal(t, "+120", rows[0].Extras["Odds"])
	assert.Equal(t, "1700", rows[1].Extras["Elevation"])
}

func TestSelect_MissingColumn(t *testing.T) {
	path := writeTestCSV(t, "State,V\nOhio,1\n")
	tbl, err := LoadCSV(path)
	require.NoError(t, err)

	_, _, err = tbl.Select("State", "Probability")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "Probability"`)
}

func TestCell_ShortRow(t *testing.T) {
	path := writeTestCSV(t, "A,B,C\nx\n")
	tbl, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "x", tbl.Cell(tbl.Rows[0], "A"))
	assert.Empty(t, tbl.Cell(tbl.Rows[0], "C"))
}
