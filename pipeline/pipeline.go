package pipeline

import (
	"context"
	"fmt"

	"qallm/extract"
)

const promptTemplate = `You extract a single data element from a spreadsheet document.

Element to extract: %s
%s
Document content (cells separated by tabs, rows by newlines):
---
%s
---

Respond ONLY with valid JSON in this exact format:
{"value": "<extracted value>", "found": true, "confidence": 0.0}

Set "found" to false and "value" to "" if the element is not present.
If you cannot process the document at all, respond with:
{"value": "", "found": false, "error": "description of the problem"}`

// LocalPipeline runs extraction for every (element, document) pair against
// a Processor. It satisfies extract.Pipeline.
type LocalPipeline struct {
	proc extract.Processor
}

func NewLocalPipeline(proc extract.Processor) *LocalPipeline {
	return &LocalPipeline{proc: proc}
}

// ProcessWorkbook reads the input workbook and asks the model once per
// element and document. An unreadable input workbook fails the whole run
// (Success false); a bad document or a malformed model reply only fails
// that document's row.
func (p *LocalPipeline) ProcessWorkbook(ctx context.Context, path string) (*extract.Result, error) {
	job, err := readInputWorkbook(path)
	if err != nil {
		return &extract.Result{Success: false, Error: err.Error()}, nil
	}

	res := &extract.Result{Success: true}
	for _, el := range job.Elements {
		er := extract.ElementResult{ElementName: el.Name}
		for _, doc := range job.Documents {
			er.Documents = append(er.Documents, p.processDocument(ctx, el, doc))
		}
		res.Elements = append(res.Elements, er)
	}
	return res, nil
}

func (p *LocalPipeline) processDocument(ctx context.Context, el elementSpec, docPath string) extract.DocumentResult {
	dr := extract.DocumentResult{DocumentPath: docPath}

	text, err := readDocumentText(docPath)
	if err != nil {
		dr.Error = err.Error()
		return dr
	}

	hint := ""
	if el.Hint != "" {
		hint = "Hint: " + el.Hint + "\n"
	}
	prompt := fmt.Sprintf(promptTemplate, el.Name, hint, text)

	reply, err := p.proc.Generate(ctx, prompt)
	if err != nil {
		dr.Error = err.Error()
		return dr
	}

	ext, err := parseExtractionReply(reply)
	if err != nil {
		dr.Error = err.Error()
		return dr
	}

	dr.Success = true
	dr.Extraction = ext
	return dr
}
