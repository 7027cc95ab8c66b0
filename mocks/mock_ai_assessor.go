package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dekontrol/internal/analysis"
)

// MockAIAssessor is a mock implementation of analysis.AIAssessor.
type MockAIAssessor struct {
	mock.Mock
}

func (m *MockAIAssessor) Assess(ctx context.Context, rawText string, expected analysis.ExpectedRecord) (*analysis.ExternalAIAssessment, error) {
	args := m.Called(ctx, rawText, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.ExternalAIAssessment), args.Error(1)
}
