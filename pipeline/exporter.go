package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"qallm/extract"
)

const resultsSheet = "Results"

var exportHeaders = []string{"ID", "Element", "Document", "Extracted Value", "Confidence"}

// XLSXExporter writes the flattened result rows to an output workbook. It
// satisfies extract.Exporter.
type XLSXExporter struct{}

func (XLSXExporter) ExportWorkbook(res *extract.Result, path string) error {
	if res == nil {
		return fmt.Errorf("no results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i, row := range extract.FlattenRows(res) {
		values := []any{row.Seq, row.Element, row.Document, row.Value, row.Confidence}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(resultsSheet, cell, v); err != nil {
				return fmt.Errorf("xlsx row %d: %w", i+1, err)
			}
		}
	}

	_ = f.SetColWidth(resultsSheet, "A", "A", 6)
	_ = f.SetColWidth(resultsSheet, "B", "B", 24)
	_ = f.SetColWidth(resultsSheet, "C", "C", 36)
	_ = f.SetColWidth(resultsSheet, "D", "D", 30)
	_ = f.SetColWidth(resultsSheet, "E", "E", 12)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
