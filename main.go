package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"qallm/extract"
	"qallm/logging"
	"qallm/pipeline"
	"qallm/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

// Build info - set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	shortVersionFlag := flag.Bool("v", false, "Print version information (short)")
	flag.Parse()

	if *versionFlag || *shortVersionFlag {
		fmt.Printf("qallm %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		fmt.Printf("  go:     %s\n", runtime.Version())
		fmt.Printf("  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}

	// Load .env file if it exists (won't error if missing)
	_ = godotenv.Load()

	// The event channel is the bridge between the worker goroutine, the log
	// sink and the UI loop. Buffered so the worker rarely blocks on the UI.
	events := make(chan extract.Event, 512)

	logger, err := logging.New(logging.DefaultConfig(), func(line string) {
		events <- extract.LogEvent{Line: line}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	runner := extract.NewRunner(extract.Factories{
		NewProcessor: func(ctx context.Context, model string, use8Bit bool) (extract.Processor, error) {
			return pipeline.NewOllamaProcessor(ctx, model, use8Bit)
		},
		NewPipeline: func(p extract.Processor) extract.Pipeline {
			return pipeline.NewLocalPipeline(p)
		},
		Exporter: pipeline.XLSXExporter{},
	}, log)

	m := tui.NewModel(runner, events, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
