package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dekontrol/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendAnalysisComplete(ctx context.Context, n port.AnalysisNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
