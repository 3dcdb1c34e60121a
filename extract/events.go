package extract

// Event is anything the worker (or the log bridge) hands to the UI loop.
// Events travel over a single ordered channel so log lines, progress and
// results can never interleave out of order.
type Event interface{ isEvent() }

// ProgressEvent moves the progress bar to a checkpoint percentage.
type ProgressEvent struct {
	Percent int
}

// LogEvent carries one fully formatted log line for the log pane.
type LogEvent struct {
	Line string
}

// ResultsEvent delivers the extraction result for the table.
type ResultsEvent struct {
	Result *Result
}

// DialogKind selects the modal dialog flavor.
type DialogKind int

const (
	DialogError DialogKind = iota
	DialogInfo
)

// DialogEvent asks the UI to show a modal dialog.
type DialogEvent struct {
	Kind    DialogKind
	Title   string
	Message string
}

// DoneEvent is always the last event of a run, on every exit path. The UI
// re-enables Start and disables Stop when it arrives.
type DoneEvent struct{}

func (ProgressEvent) isEvent() {}
func (LogEvent) isEvent()      {}
func (ResultsEvent) isEvent()  {}
func (DialogEvent) isEvent()   {}
func (DoneEvent) isEvent()     {}
