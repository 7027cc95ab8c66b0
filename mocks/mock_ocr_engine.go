package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dekontrol/internal/analysis"
)

// MockOCREngine is a mock implementation of analysis.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Scan(ctx context.Context, fileBytes []byte, fileName string) (*analysis.RawScanResult, error) {
	args := m.Called(ctx, fileBytes, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.RawScanResult), args.Error(1)
}
