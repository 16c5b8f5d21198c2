package chart

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
)

// ExecConfig configures ExecAnalyzer.
type ExecConfig struct {
	Command string
	Timeout time.Duration
	TempDir string
}

// ExecAnalyzer runs `<command> <png-path> [level]` and reads
// {"scores": {...}, "debugImage": "<base64>"} from stdout.
type ExecAnalyzer struct {
	cfg    ExecConfig
	runner ocr.Runner
	logger *slog.Logger
}

func NewExecAnalyzer(cfg ExecConfig, runner ocr.Runner, logger *slog.Logger) *ExecAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.NewExecRunner(logger)
	}
	return &ExecAnalyzer{cfg: cfg, runner: runner, logger: logger}
}

type execOutput struct {
	Scores     map[string]*float64 `json:"scores"`
	DebugImage string              `json:"debugImage"`
}

func (a *ExecAnalyzer) Analyze(ctx context.Context, in Input) (Output, error) {
	if a.cfg.Command == "" {
		return Output{}, common.NewAppError(common.KindConfig, "chart analyzer command is not configured", common.ErrInvalidInput)
	}
	if len(in.Image.Data) == 0 {
		return Output{}, ErrNoChartPage
	}

	ctx, cancel := common.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	dir, err := os.MkdirTemp(a.cfg.TempDir, "exr-chart-*")
	if err != nil {
		return Output{}, fmt.Errorf("mkdtemp: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	ext := ".png"
	if in.Image.MediaType == "image/jpeg" {
		ext = ".jpg"
	}
	path := filepath.Join(dir, "chart"+ext)
	if err := os.WriteFile(path, in.Image.Data, 0o600); err != nil {
		return Output{}, fmt.Errorf("write chart image: %w", err)
	}

	args := []string{path}
	if in.LevelHint != nil {
		args = append(args, strconv.Itoa(*in.LevelHint))
	}

	start := time.Now()
	stdout, _, err := a.runner.Run(ctx, a.cfg.Command, args...)
	if err != nil {
		return Output{}, fmt.Errorf("chart analyzer: %w", err)
	}

	var raw execOutput
	if err := json.Unmarshal(stdout, &raw); err != nil {
		return Output{}, fmt.Errorf("decode analyzer output: %w", err)
	}
	out := Output{Scores: raw.Scores}
	if out.Scores == nil {
		out.Scores = map[string]*float64{}
	}
	if raw.DebugImage != "" {
		img, err := base64.StdEncoding.DecodeString(raw.DebugImage)
		if err != nil {
			return Output{}, fmt.Errorf("decode debug image: %w", err)
		}
		out.DebugImage = img
	}

	a.logger.Info("chart.analyzed", "page", in.Image.Page, "topics", len(out.Scores), "duration_ms", time.Since(start).Milliseconds())
	return out, nil
}
