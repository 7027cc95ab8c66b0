package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dekontrol/internal/domain"
)

// MockReceiptRepo is a mock implementation of port.ReceiptRepository.
type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) GetByID(ctx context.Context, receiptID uuid.UUID) (*domain.Receipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepo) List(ctx context.Context, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, studentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptRepo) ListByPeriod(ctx context.Context, month, year, offset, limit int) ([]domain.Receipt, int, error) {
	args := m.Called(ctx, month, year, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Receipt), args.Int(1), args.Error(2)
}

func (m *MockReceiptRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Receipt, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receipt), args.Error(1)
}

func (m *MockReceiptRepo) Requeue(ctx context.Context, receiptID uuid.UUID) error {
	args := m.Called(ctx, receiptID)
	return args.Error(0)
}

func (m *MockReceiptRepo) UpdateAnalysis(ctx context.Context, receipt *domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) UpdateReview(ctx context.Context, receipt *domain.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepo) Delete(ctx context.Context, receiptID uuid.UUID) error {
	args := m.Called(ctx, receiptID)
	return args.Error(0)
}
