package extract

import (
	"path/filepath"
	"strings"
)

// DeriveOutputPath suggests an output workbook path next to the input file:
// <dir>/<stem>_results.xlsx.
func DeriveOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_results.xlsx")
}

// EnsureXLSX appends the .xlsx extension if the path does not already end
// with it. The check is case-insensitive, so report.XLSX is left alone.
func EnsureXLSX(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return path
	}
	return path + ".xlsx"
}
