package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"dekontrol/internal/domain"
	"dekontrol/internal/port"
)

// StudentInput is the DTO for creating or updating a student.
type StudentInput struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	StudentNumber string `json:"student_number" binding:"required"`
	ClassName     string `json:"class_name"`
}

// CompanyInput is the DTO for creating or updating a company.
type CompanyInput struct {
	Name         string `json:"name" binding:"required"`
	TaxNumber    string `json:"tax_number"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}

// RosterService manages the student and company rosters receipts are
// verified against.
type RosterService interface {
	CreateStudent(ctx context.Context, input StudentInput) (*domain.Student, error)
	GetStudent(ctx context.Context, studentID uuid.UUID) (*domain.Student, error)
	ListStudents(ctx context.Context, offset, limit int) ([]domain.Student, int, error)
	UpdateStudent(ctx context.Context, studentID uuid.UUID, input StudentInput) (*domain.Student, error)

	CreateCompany(ctx context.Context, input CompanyInput) (*domain.Company, error)
	GetCompany(ctx context.Context, companyID uuid.UUID) (*domain.Company, error)
	ListCompanies(ctx context.Context, offset, limit int) ([]domain.Company, int, error)
	UpdateCompany(ctx context.Context, companyID uuid.UUID, input CompanyInput) (*domain.Company, error)
}

type rosterService struct {
	studentRepo port.StudentRepository
	companyRepo port.CompanyRepository
}

// NewRosterService creates a new RosterService implementation.
func NewRosterService(studentRepo port.StudentRepository, companyRepo port.CompanyRepository) RosterService {
	return &rosterService{
		studentRepo: studentRepo,
		companyRepo: companyRepo,
	}
}

func (s *rosterService) CreateStudent(ctx context.Context, input StudentInput) (*domain.Student, error) {
	student := &domain.Student{
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		StudentNumber: strings.TrimSpace(input.StudentNumber),
		ClassName:     strings.TrimSpace(input.ClassName),
		IsActive:      true,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *rosterService) GetStudent(ctx context.Context, studentID uuid.UUID) (*domain.Student, error) {
	return s.studentRepo.GetByID(ctx, studentID)
}

func (s *rosterService) ListStudents(ctx context.Context, offset, limit int) ([]domain.Student, int, error) {
	return s.studentRepo.List(ctx, offset, limit)
}

func (s *rosterService) UpdateStudent(ctx context.Context, studentID uuid.UUID, input StudentInput) (*domain.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	student.FirstName = strings.TrimSpace(input.FirstName)
	student.LastName = strings.TrimSpace(input.LastName)
	student.StudentNumber = strings.TrimSpace(input.StudentNumber)
	student.ClassName = strings.TrimSpace(input.ClassName)
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *rosterService) CreateCompany(ctx context.Context, input CompanyInput) (*domain.Company, error) {
	company := &domain.Company{
		Name:         strings.TrimSpace(input.Name),
		TaxNumber:    strings.TrimSpace(input.TaxNumber),
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		IsActive:     true,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *rosterService) GetCompany(ctx context.Context, companyID uuid.UUID) (*domain.Company, error) {
	return s.companyRepo.GetByID(ctx, companyID)
}

func (s *rosterService) ListCompanies(ctx context.Context, offset, limit int) ([]domain.Company, int, error) {
	return s.companyRepo.List(ctx, offset, limit)
}

func (s *rosterService) UpdateCompany(ctx context.Context, companyID uuid.UUID, input CompanyInput) (*domain.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	company.Name = strings.TrimSpace(input.Name)
	company.TaxNumber = strings.TrimSpace(input.TaxNumber)
	company.ContactEmail = strings.TrimSpace(input.ContactEmail)
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}
