package pipeline

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	elementsSheet  = "Elements"
	documentsSheet = "Documents"

	// documentTextLimit caps how much workbook text goes into a prompt.
	documentTextLimit = 4000
)

// elementSpec is one row of the Elements sheet: the element to extract and
// an optional hint describing where/how it appears.
type elementSpec struct {
	Name string
	Hint string
}

// extractionJob is the parsed input workbook.
type extractionJob struct {
	Elements  []elementSpec
	Documents []string
}

// readInputWorkbook parses the input workbook. The Elements sheet lists the
// elements to extract (name, hint) and the Documents sheet lists document
// paths, each with a header row.
func readInputWorkbook(path string) (*extractionJob, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input workbook: %w", err)
	}
	defer f.Close()

	elementRows, err := f.GetRows(elementsSheet)
	if err != nil {
		return nil, fmt.Errorf("missing %q sheet: %w", elementsSheet, err)
	}
	documentRows, err := f.GetRows(documentsSheet)
	if err != nil {
		return nil, fmt.Errorf("missing %q sheet: %w", documentsSheet, err)
	}

	job := &extractionJob{}
	for i, row := range elementRows {
		if i == 0 || len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		spec := elementSpec{Name: name}
		if len(row) > 1 {
			spec.Hint = strings.TrimSpace(row[1])
		}
		job.Elements = append(job.Elements, spec)
	}
	for i, row := range documentRows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if p := strings.TrimSpace(row[0]); p != "" {
			job.Documents = append(job.Documents, p)
		}
	}

	if len(job.Elements) == 0 {
		return nil, fmt.Errorf("no elements defined in %q sheet", elementsSheet)
	}
	if len(job.Documents) == 0 {
		return nil, fmt.Errorf("no documents listed in %q sheet", documentsSheet)
	}
	return job, nil
}

// readDocumentText flattens a document workbook into plain text for
// prompting: cells joined by tabs, rows by newlines, sheets separated by a
// blank line, truncated at documentTextLimit.
func readDocumentText(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot open document: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteString("\n")
			if sb.Len() > documentTextLimit {
				return sb.String()[:documentTextLimit], nil
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
