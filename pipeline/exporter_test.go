package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"qallm/extract"
)

func TestXLSXExporter_RoundTrip(t *testing.T) {
	conf := 0.92
	res := &extract.Result{
		Success: true,
		Elements: []extract.ElementResult{
			{
				ElementName: "Invoice Date",
				Documents: []extract.DocumentResult{
					{
						DocumentPath: "/a/inv1.xlsx",
						Success:      true,
						Extraction:   &extract.Extraction{Value: "2024-01-05", Found: true, Confidence: &conf},
					},
					{DocumentPath: "/a/inv2.xlsx", Success: false, Error: "parse failed"},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out", "results.xlsx")
	require.NoError(t, XLSXExporter{}.ExportWorkbook(res, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"1", "Invoice Date", "inv1.xlsx", "2024-01-05", "0.92"}, rows[1])
	assert.Equal(t, []string{"2", "Invoice Date", "inv2.xlsx", "ERROR", "N/A"}, rows[2])
}

func TestXLSXExporter_NilResult(t *testing.T) {
	err := XLSXExporter{}.ExportWorkbook(nil, filepath.Join(t.TempDir(), "out.xlsx"))
	require.Error(t, err)
}

func TestXLSXExporter_EmptyResultWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, XLSXExporter{}.ExportWorkbook(&extract.Result{Success: true}, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportHeaders, rows[0])
}
