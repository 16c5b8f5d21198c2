package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
// Shared by the poppler tools, tesseract and the chart analyzer.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecError is returned by the exec runner when a command fails to start or exits non-zero.
type ExecError struct {
	Name     string
	ExitCode int // -1 when the process never ran
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited %d", e.Name, e.ExitCode)
	}
	return fmt.Sprintf("%s exited %d: %s", e.Name, e.ExitCode, Truncate(strings.TrimSpace(e.Stderr), 512))
}

func (e *ExecError) Unwrap() error { return e.Err }

// MissingTool reports whether err means the command is not installed.
func MissingTool(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

type execRunner struct {
	logger *slog.Logger
}

// NewExecRunner returns a Runner backed by os/exec. Commands die with ctx.
func NewExecRunner(logger *slog.Logger) Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return execRunner{logger: logger}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	var out, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start).Milliseconds()
	if err == nil {
		r.logger.Debug("exec ok", "cmd", name, "duration_ms", dur, "stdout_bytes", out.Len())
		return out.Bytes(), errb.Bytes(), nil
	}

	execErr := &ExecError{Name: name, ExitCode: -1, Stderr: errb.String(), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitCode = exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		execErr.Err = errors.Join(err, ctx.Err())
	}
	r.logger.Error("exec failed",
		"cmd", name,
		"args", strings.Join(args, " "),
		"exit_code", execErr.ExitCode,
		"duration_ms", dur,
		"error", err,
		"stderr", Truncate(errb.String(), 8<<10),
	)
	return out.Bytes(), errb.Bytes(), execErr
}

// Truncate caps s at max bytes.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
