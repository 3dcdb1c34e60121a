// Package extract holds the domain model and run coordination for the
// document extraction front-end. The actual model inference, workbook
// parsing, and export live behind the Processor/Pipeline/Exporter
// contract; this package only orchestrates them.
package extract

import "context"

// Request is everything a single extraction run needs. It is built when
// the user starts a run and never mutated afterwards.
type Request struct {
	InputPath  string
	OutputPath string
	Model      string
	Use8Bit    bool
}

// Extraction is a single extracted value for one element in one document.
type Extraction struct {
	Value      string   `json:"value"`
	Found      bool     `json:"found"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// DocumentResult is the outcome of extracting one element from one document.
// Either Extraction is set (Success) or Error describes what went wrong.
type DocumentResult struct {
	DocumentPath string      `json:"document_path"`
	Success      bool        `json:"success"`
	Extraction   *Extraction `json:"extraction,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// ElementResult groups the per-document outcomes for one element, in the
// order the pipeline produced them.
type ElementResult struct {
	ElementName string           `json:"element_name"`
	Documents   []DocumentResult `json:"document_results"`
}

// Result is the full outcome of one pipeline run. Success false means the
// run failed as a whole (e.g. the input workbook could not be read) and
// Elements is empty.
type Result struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error,omitempty"`
	Elements []ElementResult `json:"results,omitempty"`
}

// Processor generates a completion for a prompt against the selected model.
type Processor interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline runs extraction over an input workbook.
type Pipeline interface {
	ProcessWorkbook(ctx context.Context, path string) (*Result, error)
}

// Exporter writes a result to an output workbook.
type Exporter interface {
	ExportWorkbook(res *Result, path string) error
}
