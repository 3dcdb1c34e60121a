package extract

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Factories constructs the run collaborators. The processor is built per
// run because it binds the chosen model and quantization; the pipeline is
// built on top of it; the exporter is stateless.
type Factories struct {
	NewProcessor func(ctx context.Context, model string, use8Bit bool) (Processor, error)
	NewPipeline  func(p Processor) Pipeline
	Exporter     Exporter
}

// Runner executes one extraction run on a worker goroutine and reports
// everything back through an event channel. The caller guarantees at most
// one concurrent run (Start is disabled while one is active).
type Runner struct {
	fac Factories
	log *zap.SugaredLogger
}

func NewRunner(fac Factories, log *zap.SugaredLogger) *Runner {
	return &Runner{fac: fac, log: log}
}

// Run performs the worker sequence: init processor (10%), init pipeline
// (20%), process workbook (30% -> 80%), publish results, export, 100%.
// DoneEvent is emitted unconditionally as the final event, including after
// a panic; that is the only guaranteed path back to the idle UI state.
//
// There is no cancellation: Stop in the UI is advisory only, so ctx is the
// program context rather than a per-run token.
func (r *Runner) Run(ctx context.Context, req Request, events chan<- Event) {
	log := r.log.With("run_id", uuid.NewString())

	defer func() { events <- DoneEvent{} }()
	defer func() {
		if p := recover(); p != nil {
			log.Errorf("Error in processing run: %v", p)
			events <- DialogEvent{
				Kind:    DialogError,
				Title:   "Processing Error",
				Message: fmt.Sprintf("An error occurred: %v", p),
			}
		}
	}()

	progress := func(pct int) { events <- ProgressEvent{Percent: pct} }

	log.Infof("Initializing LLM processor with model: %s", req.Model)
	progress(10)
	proc, err := r.fac.NewProcessor(ctx, req.Model, req.Use8Bit)
	if err != nil {
		log.Errorf("Failed to initialize LLM processor: %v", err)
		events <- DialogEvent{
			Kind:    DialogError,
			Title:   "Processing Error",
			Message: fmt.Sprintf("An error occurred: %v", err),
		}
		return
	}

	log.Info("Initializing data processor")
	progress(20)
	pipe := r.fac.NewPipeline(proc)

	log.Infof("Processing Excel file: %s", req.InputPath)
	progress(30)
	res, err := pipe.ProcessWorkbook(ctx, req.InputPath)
	if err != nil {
		log.Errorf("Error in processing run: %v", err)
		events <- DialogEvent{
			Kind:    DialogError,
			Title:   "Processing Error",
			Message: fmt.Sprintf("An error occurred: %v", err),
		}
		return
	}

	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "Unknown error"
		}
		log.Errorf("Failed to process Excel file: %s", msg)
		events <- DialogEvent{
			Kind:    DialogError,
			Title:   "Processing Error",
			Message: "Failed to process Excel file: " + msg,
		}
		progress(0)
		return
	}

	progress(80)
	events <- ResultsEvent{Result: res}

	log.Infof("Exporting results to: %s", req.OutputPath)
	if err := r.fac.Exporter.ExportWorkbook(res, req.OutputPath); err != nil {
		log.Errorf("Failed to export results: %v", err)
		events <- DialogEvent{
			Kind:    DialogError,
			Title:   "Export Error",
			Message: "Failed to export results to Excel file: " + err.Error(),
		}
	} else {
		log.Info("Processing completed successfully")
		events <- DialogEvent{
			Kind:    DialogInfo,
			Title:   "Success",
			Message: "Processing completed successfully. Results exported to " + req.OutputPath,
		}
	}
	progress(100)
}
