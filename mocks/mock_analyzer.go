package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joseph-ayodele/exam-report-intake/internal/chart"
)

// MockAnalyzer is a mock implementation of chart.Analyzer.
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, in chart.Input) (chart.Output, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(chart.Output), args.Error(1)
}
