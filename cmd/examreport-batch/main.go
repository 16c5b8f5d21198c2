package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"log/slog"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/batch"
	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
	"github.com/joseph-ayodele/exam-report-intake/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func printResult(r batch.JobResult) {
	if r.Err != nil {
		printError("%s: %v\n", r.Job.Path, r.Err)
		return
	}
	b, err := report.Encode(r.Result)
	if err != nil {
		printError("%s: %v\n", r.Job.Path, err)
		return
	}
	fmt.Println(string(b))
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory of report files (required)")
		formatStr  = flag.String("format", "", "report format: cfa or frm (required)")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
		watch      = flag.Bool("watch", false, "keep running and process files as they appear in --dir")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(2)
	}
	format, ok := constants.CanonicalizeFormat(*formatStr)
	if !ok {
		printError("Error: --format must be cfa or frm, got %q\n", *formatStr)
		os.Exit(2)
	}

	cfg, err := common.LoadConfig()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		printError("Error: config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := intake.NewPipelineFromConfig(cfg, logger)
	opts := []batch.Option{
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithQueueSize(cfg.Batch.QueueSize),
		batch.WithProcessTimeout(cfg.Batch.ProcessTimeout),
		batch.WithMaxBytes(cfg.Intake.MaxBytes()),
	}

	if *watch {
		var mu sync.Mutex
		err := batch.RunWatch(ctx, pipeline, func(r batch.JobResult) {
			mu.Lock()
			defer mu.Unlock()
			printResult(r)
		}, logger, batch.WatchConfig{
			Root:        *dir,
			SkipHidden:  *skipHidden,
			Debounce:    cfg.Batch.WatchDebounce,
			InitialScan: true,
		}, format, opts...)
		if err != nil {
			logger.Error("watch", "error", err)
			os.Exit(1)
		}
		return
	}

	logger.Info("starting batch", "dir", *dir, "format", format, "workers", cfg.Batch.Workers)
	results, stats, err := batch.RunDirectory(ctx, pipeline, logger, *dir, format, *skipHidden, opts...)
	if err != nil {
		logger.Error("batch run", "error", err)
	}

	for _, r := range results {
		printResult(r)
	}

	logger.Info("batch complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	if stats.Failed > 0 || err != nil {
		os.Exit(1)
	}
}
