package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dekontrol/internal/domain"
	"dekontrol/internal/service"
)

// MockReceiptService is a mock implementation of service.ReceiptService.
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Upload(ctx context.Context, input service.UploadReceiptInput) (*domain.Receipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) GetByID(ctx context.Context, receiptID uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptService) List(ctx context.Context, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptService) ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, studentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptService) ListByPeriod(ctx context.Context, month, year, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, month, year, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptService) GetDownloadURL(ctx context.Context, receiptID uuid.UUID) (string, error) {
	args := m.Called(ctx, receiptID)
	return args.String(0), args.Error(1)
}

func (m *MockReceiptService) Delete(ctx context.Context, receiptID uuid.UUID) error {
	args := m.Called(ctx, receiptID)
	return args.Error(0)
}

func (m *MockReceiptService) AnalyzeReceipt(ctx context.Context, receipt *domain.Receipt, maxAttempts int) {
	m.Called(ctx, receipt, maxAttempts)
}

func (m *MockReceiptService) Reanalyze(ctx context.Context, receiptID uuid.UUID) error {
	args := m.Called(ctx, receiptID)
	return args.Error(0)
}

func (m *MockReceiptService) Review(ctx context.Context, receiptID uuid.UUID, input service.ReviewInput) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}
