package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"qallm/extract"
)

// extractionReply is the strict JSON shape the prompt demands from the
// model. Value is decoded loosely because models return numbers and
// booleans where the prompt asked for a string.
type extractionReply struct {
	Value      any      `json:"value"`
	Found      bool     `json:"found"`
	Confidence *float64 `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// parseExtractionReply turns a model completion into an Extraction.
func parseExtractionReply(s string) (*extract.Extraction, error) {
	s = cleanJSONResponse(s)

	var rep extractionReply
	if err := json.Unmarshal([]byte(s), &rep); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w\nResponse was: %s", err, s)
	}

	if rep.Error != "" {
		return nil, fmt.Errorf("model could not extract: %s", rep.Error)
	}

	value := "N/A"
	if rep.Value != nil {
		value = strings.TrimSpace(fmt.Sprintf("%v", rep.Value))
	}

	return &extract.Extraction{
		Value:      value,
		Found:      rep.Found,
		Confidence: rep.Confidence,
	}, nil
}

// cleanJSONResponse strips markdown code fences models like to wrap JSON in.
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
