package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProcessor struct{}

func (fakeProcessor) Generate(context.Context, string) (string, error) { return "", nil }

type fakePipeline struct {
	res      *Result
	err      error
	panicMsg string
}

func (p fakePipeline) ProcessWorkbook(context.Context, string) (*Result, error) {
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	return p.res, p.err
}

type fakeExporter struct {
	err   error
	calls int
}

func (e *fakeExporter) ExportWorkbook(*Result, string) error {
	e.calls++
	return e.err
}

func successResult() *Result {
	return &Result{
		Success: true,
		Elements: []ElementResult{
			{
				ElementName: "Invoice Date",
				Documents: []DocumentResult{
					{DocumentPath: "/a/inv1.xlsx", Success: true, Extraction: &Extraction{Value: "2024-01-05", Found: true}},
				},
			},
		},
	}
}

func runCollect(t *testing.T, fac Factories) []Event {
	t.Helper()
	ch := make(chan Event, 128)
	r := NewRunner(fac, zap.NewNop().Sugar())
	r.Run(context.Background(), Request{InputPath: "in.xlsx", OutputPath: "out.xlsx", Model: DefaultModel}, ch)

	var events []Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func progressValues(events []Event) []int {
	var out []int
	for _, ev := range events {
		if p, ok := ev.(ProgressEvent); ok {
			out = append(out, p.Percent)
		}
	}
	return out
}

func dialogs(events []Event) []DialogEvent {
	var out []DialogEvent
	for _, ev := range events {
		if d, ok := ev.(DialogEvent); ok {
			out = append(out, d)
		}
	}
	return out
}

func okFactories(pipe Pipeline, exp Exporter) Factories {
	return Factories{
		NewProcessor: func(context.Context, string, bool) (Processor, error) { return fakeProcessor{}, nil },
		NewPipeline:  func(Processor) Pipeline { return pipe },
		Exporter:     exp,
	}
}

func TestRunner_SuccessPath(t *testing.T) {
	exp := &fakeExporter{}
	events := runCollect(t, okFactories(fakePipeline{res: successResult()}, exp))

	assert.Equal(t, []int{10, 20, 30, 80, 100}, progressValues(events))
	assert.Equal(t, 1, exp.calls)

	ds := dialogs(events)
	require.Len(t, ds, 1)
	assert.Equal(t, DialogInfo, ds[0].Kind)
	assert.Equal(t, "Success", ds[0].Title)

	// Results arrive before the completion dialog, Done is always last.
	var sawResults bool
	for _, ev := range events {
		if _, ok := ev.(ResultsEvent); ok {
			sawResults = true
		}
		if _, ok := ev.(DialogEvent); ok {
			assert.True(t, sawResults, "results should precede the dialog")
		}
	}
	require.NotEmpty(t, events)
	assert.IsType(t, DoneEvent{}, events[len(events)-1])
}

func TestRunner_PipelineReportedFailure(t *testing.T) {
	exp := &fakeExporter{}
	pipe := fakePipeline{res: &Result{Success: false, Error: "bad workbook"}}
	events := runCollect(t, okFactories(pipe, exp))

	// Progress resets to 0 and export is skipped.
	assert.Equal(t, []int{10, 20, 30, 0}, progressValues(events))
	assert.Equal(t, 0, exp.calls)

	ds := dialogs(events)
	require.Len(t, ds, 1)
	assert.Equal(t, DialogError, ds[0].Kind)
	assert.Contains(t, ds[0].Message, "bad workbook")

	for _, ev := range events {
		_, ok := ev.(ResultsEvent)
		assert.False(t, ok, "no results on a failed run")
	}
	assert.IsType(t, DoneEvent{}, events[len(events)-1])
}

func TestRunner_PipelineFailureWithoutMessage(t *testing.T) {
	events := runCollect(t, okFactories(fakePipeline{res: &Result{Success: false}}, &fakeExporter{}))

	ds := dialogs(events)
	require.Len(t, ds, 1)
	assert.Contains(t, ds[0].Message, "Unknown error")
}

func TestRunner_ProcessorInitFailure(t *testing.T) {
	exp := &fakeExporter{}
	fac := Factories{
		NewProcessor: func(context.Context, string, bool) (Processor, error) {
			return nil, errors.New("model not available")
		},
		NewPipeline: func(Processor) Pipeline { return fakePipeline{} },
		Exporter:    exp,
	}
	events := runCollect(t, fac)

	assert.Equal(t, []int{10}, progressValues(events))
	assert.Equal(t, 0, exp.calls)

	ds := dialogs(events)
	require.Len(t, ds, 1)
	assert.Equal(t, DialogError, ds[0].Kind)
	assert.Contains(t, ds[0].Message, "model not available")
	assert.IsType(t, DoneEvent{}, events[len(events)-1])
}

func TestRunner_ExportFailureStillCompletes(t *testing.T) {
	exp := &fakeExporter{err: errors.New("disk full")}
	events := runCollect(t, okFactories(fakePipeline{res: successResult()}, exp))

	// The run still ends at 100% even though export failed.
	assert.Equal(t, []int{10, 20, 30, 80, 100}, progressValues(events))

	ds := dialogs(events)
	require.Len(t, ds, 1)
	assert.Equal(t, DialogError, ds[0].Kind)
	assert.Equal(t, "Export Error", ds[0].Title)
	assert.IsType(t, DoneEvent{}, events[len(events)-1])
}

func TestRunner_PanicIsRecovered(t *testing.T) {
	events := runCollect(t, okFactories(fakePipeline{panicMsg: "boom"}, &fakeExporter{}))

	ds := dialogs(events)
	require.Len(t, ds, 1)
	assert.Equal(t, DialogError, ds[0].Kind)
	assert.Contains(t, ds[0].Message, "boom")
	assert.IsType(t, DoneEvent{}, events[len(events)-1])
}

func TestRunner_DoneIsAlwaysLast(t *testing.T) {
	cases := map[string]Factories{
		"success":          okFactories(fakePipeline{res: successResult()}, &fakeExporter{}),
		"pipeline failure": okFactories(fakePipeline{res: &Result{Success: false, Error: "x"}}, &fakeExporter{}),
		"export failure":   okFactories(fakePipeline{res: successResult()}, &fakeExporter{err: errors.New("x")}),
		"panic":            okFactories(fakePipeline{panicMsg: "x"}, &fakeExporter{}),
	}
	for name, fac := range cases {
		t.Run(name, func(t *testing.T) {
			events := runCollect(t, fac)
			require.NotEmpty(t, events)
			assert.IsType(t, DoneEvent{}, events[len(events)-1])
			for _, ev := range events[:len(events)-1] {
				_, ok := ev.(DoneEvent)
				assert.False(t, ok, "DoneEvent must appear exactly once, last")
			}
		})
	}
}
