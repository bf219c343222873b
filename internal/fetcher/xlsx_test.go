package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, row := range rows {
			r := sheet.AddRow()
			for _, v := range row {
				r.AddCell().SetString(v)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"roster": {
			{"person_id", "full_name", "org"},
			{"p1", "Alex Chen", "Google"},
		},
	})

	rows, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"person_id", "full_name", "org"}, rows[0])
	assert.Equal(t, "Alex Chen", rows[1][1])
}

func TestReadXLSXSkipRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"roster": {
			{"Exported 2026-08-31"},
			{"person_id", "full_name", "org"},
			{"p1", "Alex Chen", "Google"},
		},
	})

	rows, err := ReadXLSX(path, XLSXOptions{SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "person_id", rows[0][0])
}

func TestReadXLSXSheetByName(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"notes":  {{"irrelevant"}},
		"people": {{"p1", "Alex Chen"}},
	})

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "people"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "p1", rows[0][0])
}

func TestReadXLSXSheetNotFound(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{"roster": {{"p1"}}})

	_, err := ReadXLSX(path, XLSXOptions{SheetName: "missing"})
	assert.ErrorContains(t, err, `sheet "missing" not found`)

	_, err = ReadXLSX(path, XLSXOptions{SheetIndex: 5})
	assert.ErrorContains(t, err, "out of range")
}

func TestReadXLSXMissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), XLSXOptions{})
	assert.ErrorContains(t, err, "open")
}
