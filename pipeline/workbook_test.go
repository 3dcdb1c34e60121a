package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeInputWorkbook builds a minimal input workbook with Elements and
// Documents sheets, each with a header row.
func writeInputWorkbook(t *testing.T, path string, elements [][]string, docs []string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(elementsSheet)
	require.NoError(t, err)
	_, err = f.NewSheet(documentsSheet)
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	require.NoError(t, f.SetCellValue(elementsSheet, "A1", "Element"))
	require.NoError(t, f.SetCellValue(elementsSheet, "B1", "Hint"))
	for i, el := range elements {
		row := i + 2
		require.NoError(t, f.SetCellValue(elementsSheet, cell(1, row), el[0]))
		if len(el) > 1 {
			require.NoError(t, f.SetCellValue(elementsSheet, cell(2, row), el[1]))
		}
	}

	require.NoError(t, f.SetCellValue(documentsSheet, "A1", "Document Path"))
	for i, d := range docs {
		require.NoError(t, f.SetCellValue(documentsSheet, cell(1, i+2), d))
	}

	require.NoError(t, f.SaveAs(path))
}

// writeDocumentWorkbook builds a single-sheet document with the given rows.
func writeDocumentWorkbook(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, v := range row {
			require.NoError(t, f.SetCellValue("Sheet1", cell(c+1, r+1), v))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func TestReadInputWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.xlsx")
	writeInputWorkbook(t, path,
		[][]string{{"Invoice Date", "top of the document"}, {"Total Amount"}},
		[]string{"/docs/inv1.xlsx", "/docs/inv2.xlsx"},
	)

	job, err := readInputWorkbook(path)
	require.NoError(t, err)
	require.Len(t, job.Elements, 2)
	assert.Equal(t, "Invoice Date", job.Elements[0].Name)
	assert.Equal(t, "top of the document", job.Elements[0].Hint)
	assert.Equal(t, "Total Amount", job.Elements[1].Name)
	assert.Empty(t, job.Elements[1].Hint)
	assert.Equal(t, []string{"/docs/inv1.xlsx", "/docs/inv2.xlsx"}, job.Documents)
}

func TestReadInputWorkbook_MissingFile(t *testing.T) {
	_, err := readInputWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}

func TestReadInputWorkbook_MissingSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := readInputWorkbook(path)
	require.Error(t, err)
}

func TestReadInputWorkbook_NoElements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writeInputWorkbook(t, path, nil, []string{"/docs/a.xlsx"})

	_, err := readInputWorkbook(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no elements")
}

func TestReadDocumentText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xlsx")
	writeDocumentWorkbook(t, path, [][]string{
		{"Invoice", "INV-001"},
		{"Date", "2024-01-05"},
	})

	text, err := readDocumentText(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Invoice\tINV-001")
	assert.Contains(t, text, "Date\t2024-01-05")
}

func TestReadDocumentText_MissingFile(t *testing.T) {
	_, err := readDocumentText(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
}
