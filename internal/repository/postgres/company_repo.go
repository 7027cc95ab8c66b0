package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dekontrol/internal/domain"
	"dekontrol/internal/port"
)

type companyRepo struct {
	db *sqlx.DB
}

// NewCompanyRepo creates a new PostgreSQL-backed CompanyRepository.
func NewCompanyRepo(db *sqlx.DB) port.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	company.ID = uuid.New()
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	query := `INSERT INTO companies (id, name, tax_number, contact_email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		company.ID, company.Name, company.TaxNumber, company.ContactEmail,
		company.IsActive, company.CreatedAt, company.UpdatedAt)
	if err != nil {
		return fmt.Errorf("companyRepo.Create: %w", err)
	}
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, companyID uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	err := r.db.GetContext(ctx, &company,
		"SELECT * FROM companies WHERE id = $1", companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("companyRepo.GetByID: %w", err)
	}
	return &company, nil
}

func (r *companyRepo) List(ctx context.Context, offset, limit int) ([]domain.Company, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM companies"); err != nil {
		return nil, 0, fmt.Errorf("companyRepo.List count: %w", err)
	}

	var companies []domain.Company
	err := r.db.SelectContext(ctx, &companies,
		"SELECT * FROM companies ORDER BY name LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("companyRepo.List: %w", err)
	}
	return companies, total, nil
}

func (r *companyRepo) Update(ctx context.Context, company *domain.Company) error {
	company.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE companies SET name = $1, tax_number = $2, contact_email = $3,
			is_active = $4, updated_at = $5
		 WHERE id = $6`,
		company.Name, company.TaxNumber, company.ContactEmail,
		company.IsActive, company.UpdatedAt, company.ID)
	if err != nil {
		return fmt.Errorf("companyRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
