package port

import (
	"context"

	"github.com/google/uuid"

	"dekontrol/internal/domain"
)

// UserRepository defines the contract for portal user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
}

// StudentRepository defines the contract for student roster persistence.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, studentID uuid.UUID) (*domain.Student, error)
	List(ctx context.Context, offset, limit int) ([]domain.Student, int, error)
	Update(ctx context.Context, student *domain.Student) error
}

// CompanyRepository defines the contract for company roster persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, companyID uuid.UUID) (*domain.Company, error)
	List(ctx context.Context, offset, limit int) ([]domain.Company, int, error)
	Update(ctx context.Context, company *domain.Company) error
}

// ReceiptRepository defines the contract for receipt persistence.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *domain.Receipt) error
	GetByID(ctx context.Context, receiptID uuid.UUID) (*domain.Receipt, error)
	List(ctx context.Context, offset, limit int) ([]domain.Receipt, int, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error)
	ListByPeriod(ctx context.Context, month, year, offset, limit int) ([]domain.Receipt, int, error)
	// ClaimQueued atomically claims up to limit queued receipts for analysis,
	// marking them running so concurrent workers never double-claim.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Receipt, error)
	Requeue(ctx context.Context, receiptID uuid.UUID) error
	UpdateAnalysis(ctx context.Context, receipt *domain.Receipt) error
	UpdateReview(ctx context.Context, receipt *domain.Receipt) error
	Delete(ctx context.Context, receiptID uuid.UUID) error
}
