package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dekontrol/internal/domain"
	"dekontrol/internal/service"
	"dekontrol/mocks"
)

func TestRosterService_CreateStudent_TrimsFields(t *testing.T) {
	studentRepo := new(mocks.MockStudentRepo)
	companyRepo := new(mocks.MockCompanyRepo)
	svc := service.NewRosterService(studentRepo, companyRepo)

	studentRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
		return s.FirstName == "Ahmet" &&
			s.LastName == "Yılmaz" &&
			s.StudentNumber == "2025-0042" &&
			s.IsActive
	})).Return(nil)

	student, err := svc.CreateStudent(context.Background(), service.StudentInput{
		FirstName:     "  Ahmet ",
		LastName:      " Yılmaz ",
		StudentNumber: " 2025-0042 ",
		ClassName:     "12-A",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ahmet", student.FirstName)
	assert.True(t, student.IsActive)
	studentRepo.AssertExpectations(t)
}

func TestRosterService_UpdateStudent_NotFound(t *testing.T) {
	studentRepo := new(mocks.MockStudentRepo)
	companyRepo := new(mocks.MockCompanyRepo)
	svc := service.NewRosterService(studentRepo, companyRepo)

	studentID := uuid.New()
	studentRepo.On("GetByID", mock.Anything, studentID).Return(nil, domain.ErrNotFound)

	_, err := svc.UpdateStudent(context.Background(), studentID, service.StudentInput{
		FirstName:     "Ahmet",
		LastName:      "Yılmaz",
		StudentNumber: "2025-0042",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	studentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRosterService_CreateCompany(t *testing.T) {
	studentRepo := new(mocks.MockStudentRepo)
	companyRepo := new(mocks.MockCompanyRepo)
	svc := service.NewRosterService(studentRepo, companyRepo)

	companyRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Company) bool {
		return c.Name == "Demir Çelik A.Ş." && c.IsActive
	})).Return(nil)

	company, err := svc.CreateCompany(context.Background(), service.CompanyInput{
		Name:      " Demir Çelik A.Ş. ",
		TaxNumber: "1234567890",
	})

	require.NoError(t, err)
	assert.Equal(t, "Demir Çelik A.Ş.", company.Name)
	companyRepo.AssertExpectations(t)
}

func TestRosterService_UpdateCompany(t *testing.T) {
	studentRepo := new(mocks.MockStudentRepo)
	companyRepo := new(mocks.MockCompanyRepo)
	svc := service.NewRosterService(studentRepo, companyRepo)

	companyID := uuid.New()
	existing := &domain.Company{ID: companyID, Name: "Eski Ünvan", IsActive: true}
	companyRepo.On("GetByID", mock.Anything, companyID).Return(existing, nil)
	companyRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Company) bool {
		return c.ID == companyID && c.Name == "Yeni Ünvan"
	})).Return(nil)

	company, err := svc.UpdateCompany(context.Background(), companyID, service.CompanyInput{
		Name: "Yeni Ünvan",
	})

	require.NoError(t, err)
	assert.Equal(t, "Yeni Ünvan", company.Name)
	companyRepo.AssertExpectations(t)
}
