// Package chart hands rendered report pages to a topic-score analyzer.
package chart

import (
	"context"
	"errors"

	"github.com/joseph-ayodele/exam-report-intake/internal/document"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
)

// ErrNoChartPage is returned when a result carries no page to analyze.
var ErrNoChartPage = errors.New("result has no chart page")

// Input is the page handed to an analyzer. Image is a private copy.
type Input struct {
	Image     document.PageImage
	LevelHint *int
}

// Output maps topic names to percentages (nil when unreadable).
type Output struct {
	Scores     map[string]*float64 `json:"scores"`
	DebugImage []byte              `json:"debugImage,omitempty"`
}

// Analyzer turns a chart image into topic scores.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (Output, error)
}

// ForResult builds the analyzer input for a completed intake.
func ForResult(res *intake.Result) (Input, error) {
	page, ok := res.ChartPage()
	if !ok {
		return Input{}, ErrNoChartPage
	}
	return Input{Image: page.Clone(), LevelHint: res.LevelHint()}, nil
}

// Analyze is ForResult followed by a.Analyze.
func Analyze(ctx context.Context, a Analyzer, res *intake.Result) (Output, error) {
	in, err := ForResult(res)
	if err != nil {
		return Output{}, err
	}
	return a.Analyze(ctx, in)
}
