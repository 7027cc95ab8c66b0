package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"dekontrol/internal/domain"
)

// MockStudentRepo is a mock implementation of port.StudentRepository.
type MockStudentRepo struct {
	mock.Mock
}

func (m *MockStudentRepo) Create(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepo) GetByID(ctx context.Context, studentID uuid.UUID) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepo) List(ctx context.Context, offset, limit int) ([]domain.Student, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Student), args.Int(1), args.Error(2)
}

func (m *MockStudentRepo) Update(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}
