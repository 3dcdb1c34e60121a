package extract

import (
	"path/filepath"
	"strconv"
)

// Row is one line of the results table: a flattened view of a single
// (element, document) outcome.
type Row struct {
	Seq        int
	Element    string
	Document   string
	Value      string
	Confidence string
}

// FlattenRows turns the nested result into table rows. Sequence numbers are
// 1-based and run-global across the whole traversal; order is element order
// then document order as the pipeline returned them, no re-sorting. Failed
// documents render as ERROR / N/A regardless of any extraction attached.
func FlattenRows(res *Result) []Row {
	if res == nil {
		return nil
	}

	var rows []Row
	seq := 1
	for _, el := range res.Elements {
		for _, doc := range el.Documents {
			row := Row{
				Seq:      seq,
				Element:  el.ElementName,
				Document: filepath.Base(doc.DocumentPath),
			}

			if doc.Success && doc.Extraction != nil {
				ext := doc.Extraction
				if ext.Value == "" {
					row.Value = "N/A"
				} else {
					row.Value = ext.Value
				}
				if ext.Confidence != nil {
					row.Confidence = strconv.FormatFloat(*ext.Confidence, 'g', -1, 64)
				} else {
					row.Confidence = "N/A"
				}
			} else {
				row.Value = "ERROR"
				row.Confidence = "N/A"
			}

			rows = append(rows, row)
			seq++
		}
	}
	return rows
}
