package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dekontrol/internal/domain"
)

// MockCompanyRepo is a mock implementation of port.CompanyRepository.
type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepo) GetByID(ctx context.Context, companyID uuid.UUID) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepo) List(ctx context.Context, offset, limit int) ([]domain.Company, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Company), args.Int(1), args.Error(2)
}

func (m *MockCompanyRepo) Update(ctx context.Context, company *domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}
