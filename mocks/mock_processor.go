package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
)

// MockProcessor is a mock implementation of intake.Processor.
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, art intake.Artifact, format constants.ExamFormat, observe intake.Observer) (*intake.Result, error) {
	args := m.Called(ctx, art, format, observe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*intake.Result), args.Error(1)
}
