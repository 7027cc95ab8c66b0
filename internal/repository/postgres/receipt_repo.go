package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dekontrol/internal/domain"
	"dekontrol/internal/port"
)

type receiptRepo struct {
	db *sqlx.DB
}

// NewReceiptRepo creates a new PostgreSQL-backed ReceiptRepository.
func NewReceiptRepo(db *sqlx.DB) port.ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, receipt *domain.Receipt) error {
	now := time.Now().UTC()
	receipt.CreatedAt = now
	receipt.UpdatedAt = now

	query := `INSERT INTO receipts (
		id, student_id, company_id, period_month, period_year, expected_amount,
		file_name, original_name, file_type, file_size, s3_bucket, s3_key, content_type,
		status, analysis_attempts, analysis_error, analysis_result, validation_result, analyzed_at,
		review_status, reviewed_by, reviewed_at, reviewer_notes,
		uploaded_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11, $12, $13,
		$14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23,
		$24, $25, $26
	)`

	_, err := r.db.ExecContext(ctx, query,
		receipt.ID, receipt.StudentID, receipt.CompanyID, receipt.PeriodMonth, receipt.PeriodYear, receipt.ExpectedAmount,
		receipt.FileName, receipt.OriginalName, receipt.FileType, receipt.FileSize, receipt.S3Bucket, receipt.S3Key, receipt.ContentType,
		receipt.Status, receipt.AnalysisAttempts, receipt.AnalysisError, receipt.AnalysisResult, receipt.ValidationResult, receipt.AnalyzedAt,
		receipt.ReviewStatus, receipt.ReviewedBy, receipt.ReviewedAt, receipt.ReviewerNotes,
		receipt.UploadedBy, receipt.CreatedAt, receipt.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "receipts_student_period") {
			return domain.ErrDuplicateReceipt
		}
		return fmt.Errorf("receiptRepo.Create: %w", err)
	}
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, receiptID uuid.UUID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.GetContext(ctx, &receipt,
		"SELECT * FROM receipts WHERE id = $1", receiptID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("receiptRepo.GetByID: %w", err)
	}
	return &receipt, nil
}

func (r *receiptRepo) List(ctx context.Context, offset, limit int) ([]domain.Receipt, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM receipts"); err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.List count: %w", err)
	}

	var receipts []domain.Receipt
	err := r.db.SelectContext(ctx, &receipts,
		"SELECT * FROM receipts ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.List: %w", err)
	}
	return receipts, total, nil
}

func (r *receiptRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]domain.Receipt, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM receipts WHERE student_id = $1", studentID)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByStudent count: %w", err)
	}

	var receipts []domain.Receipt
	err = r.db.SelectContext(ctx, &receipts,
		`SELECT * FROM receipts WHERE student_id = $1
		 ORDER BY period_year DESC, period_month DESC LIMIT $2 OFFSET $3`,
		studentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByStudent: %w", err)
	}
	return receipts, total, nil
}

func (r *receiptRepo) ListByPeriod(ctx context.Context, month, year, offset, limit int) ([]domain.Receipt, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM receipts WHERE period_month = $1 AND period_year = $2", month, year)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByPeriod count: %w", err)
	}

	var receipts []domain.Receipt
	err = r.db.SelectContext(ctx, &receipts,
		`SELECT * FROM receipts WHERE period_month = $1 AND period_year = $2
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		month, year, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("receiptRepo.ListByPeriod: %w", err)
	}
	return receipts, total, nil
}

// ClaimQueued marks up to limit queued receipts as running and returns them.
// SKIP LOCKED keeps concurrent workers from claiming the same rows.
func (r *receiptRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Receipt, error) {
	var receipts []domain.Receipt
	err := r.db.SelectContext(ctx, &receipts,
		`UPDATE receipts SET status = $1, updated_at = $2
		 WHERE id IN (
			SELECT id FROM receipts WHERE status = $3
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT $4
		 )
		 RETURNING *`,
		domain.AnalysisStatusRunning, time.Now().UTC(), domain.AnalysisStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("receiptRepo.ClaimQueued: %w", err)
	}
	return receipts, nil
}

func (r *receiptRepo) Requeue(ctx context.Context, receiptID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET status = $1, analysis_error = '', updated_at = $2
		 WHERE id = $3`,
		domain.AnalysisStatusQueued, time.Now().UTC(), receiptID)
	if err != nil {
		return fmt.Errorf("receiptRepo.Requeue: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *receiptRepo) UpdateAnalysis(ctx context.Context, receipt *domain.Receipt) error {
	receipt.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET
			status = $1, analysis_attempts = $2, analysis_error = $3,
			analysis_result = $4, validation_result = $5, analyzed_at = $6,
			updated_at = $7
		 WHERE id = $8`,
		receipt.Status, receipt.AnalysisAttempts, receipt.AnalysisError,
		receipt.AnalysisResult, receipt.ValidationResult, receipt.AnalyzedAt,
		receipt.UpdatedAt, receipt.ID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateAnalysis: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *receiptRepo) UpdateReview(ctx context.Context, receipt *domain.Receipt) error {
	receipt.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE receipts SET
			review_status = $1, reviewed_by = $2, reviewed_at = $3,
			reviewer_notes = $4, updated_at = $5
		 WHERE id = $6`,
		receipt.ReviewStatus, receipt.ReviewedBy, receipt.ReviewedAt,
		receipt.ReviewerNotes, receipt.UpdatedAt, receipt.ID)
	if err != nil {
		return fmt.Errorf("receiptRepo.UpdateReview: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *receiptRepo) Delete(ctx context.Context, receiptID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM receipts WHERE id = $1", receiptID)
	if err != nil {
		return fmt.Errorf("receiptRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
