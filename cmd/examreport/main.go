package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/chart"
	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/document"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
	"github.com/joseph-ayodele/exam-report-intake/internal/report"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		formatStr = flag.String("format", "", "report format: cfa (format a) or frm (format b) (required)")
		pagesDir  = flag.String("pages-dir", "", "write rendered page images to this directory (optional)")
		withChart = flag.Bool("chart", false, "run the configured chart analyzer on the chart page")
	)
	flag.Parse()

	format, ok := constants.CanonicalizeFormat(*formatStr)
	if !ok {
		printError("Error: --format must be cfa or frm, got %q\n", *formatStr)
		os.Exit(2)
	}
	path, err := intake.SinglePath(flag.Args())
	if err != nil {
		printError("Usage: examreport --format cfa|frm [--pages-dir DIR] <file>\n%v\n", err)
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

	art, err := intake.ReadArtifact(path, cfg.Intake.MaxBytes())
	if err != nil {
		logger.Error("read artifact", "path", path, "error", err)
		os.Exit(1)
	}

	outcomes := make(chan intake.Outcome, 1)
	orch := intake.NewOrchestrator(intake.NewPipelineFromConfig(cfg, logger), func(o intake.Outcome) {
		outcomes <- o
	}, logger)

	go func() {
		for c := range orch.Progress() {
			logger.Debug("intake.state", "generation", c.Generation, "from", c.From, "to", c.To)
		}
	}()

	orch.Submit(ctx, art, format)

	var out intake.Outcome
	select {
	case out = <-outcomes:
	case <-ctx.Done():
		orch.Cancel()
		orch.Wait()
		logger.Warn("interrupted")
		os.Exit(130)
	}

	if out.Err != nil {
		exitWithError(logger, out.Err)
	}

	rec := report.FromResult(out.Result)
	if *pagesDir != "" {
		if err := report.WritePages(*pagesDir, out.Result, rec); err != nil {
			logger.Error("write pages", "dir", *pagesDir, "error", err)
			os.Exit(1)
		}
	}
	b, err := report.EncodeRecord(rec)
	if err != nil {
		logger.Error("encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(b))

	if *withChart {
		runChart(ctx, cfg, logger, out.Result)
	}
}

func runChart(ctx context.Context, cfg *common.Config, logger *slog.Logger, res *intake.Result) {
	if cfg.Chart.Command == "" {
		logger.Warn("chart analyzer not configured", "env", "EXAMREPORT_CHART_COMMAND")
		return
	}
	analyzer := chart.NewExecAnalyzer(chart.ExecConfig{
		Command: cfg.Chart.Command,
		Timeout: cfg.Chart.Timeout,
		TempDir: cfg.Render.TempDir,
	}, ocr.NewExecRunner(logger), logger)

	scores, err := chart.Analyze(ctx, analyzer, res)
	if err != nil {
		logger.Error("chart analysis failed", "error", err)
		return
	}
	for topic, v := range scores.Scores {
		if v == nil {
			fmt.Printf("%s: N/A\n", topic)
			continue
		}
		fmt.Printf("%s: %.1f%%\n", topic, *v)
	}
}

func exitWithError(logger *slog.Logger, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		if v, ok := appErr.Detail.(document.Verdict); ok {
			logger.Error("intake rejected", "kind", appErr.Kind, "width", v.Width, "height", v.Height)
		}
		printError("%s: %s\n", appErr.Kind, appErr.Message)
		os.Exit(1)
	}
	printError("Error: %v\n", err)
	os.Exit(1)
}
