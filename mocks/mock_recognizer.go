package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joseph-ayodele/exam-report-intake/internal/ocr"
)

// MockRecognizer is a mock implementation of intake.Recognizer.
type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(ocr.Result), args.Error(1)
}
