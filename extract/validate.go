package extract

import "os"

// ValidationError is a user-facing rejection of a run request. Title maps
// onto the dialog heading shown to the user.
type ValidationError struct {
	Title   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks a request before a worker is spawned: the input file must
// exist and the output path must be non-empty. Nothing else is checked here;
// a bad workbook surfaces later as a pipeline failure.
func Validate(req Request) error {
	if req.InputPath == "" {
		return &ValidationError{Title: "Input Error", Message: "Please select a valid input Excel file"}
	}
	if _, err := os.Stat(req.InputPath); err != nil {
		return &ValidationError{Title: "Input Error", Message: "Please select a valid input Excel file"}
	}
	if req.OutputPath == "" {
		return &ValidationError{Title: "Output Error", Message: "Please specify an output Excel file"}
	}
	return nil
}
