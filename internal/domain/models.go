package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a portal user: a coordinating teacher or an administrator.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Student represents an enrolled vocational-school student.
type Student struct {
	ID            uuid.UUID `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	StudentNumber string    `db:"student_number" json:"student_number"`
	ClassName     string    `db:"class_name" json:"class_name"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Company represents an internship host company.
type Company struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	TaxNumber    string    `db:"tax_number" json:"tax_number"`
	ContactEmail string    `db:"contact_email" json:"contact_email"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Receipt represents one uploaded payment receipt (dekont) for one
// student/company/period, together with its analysis and review state.
type Receipt struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	StudentID      uuid.UUID        `db:"student_id" json:"student_id"`
	CompanyID      uuid.UUID        `db:"company_id" json:"company_id"`
	PeriodMonth    int              `db:"period_month" json:"period_month"`
	PeriodYear     int              `db:"period_year" json:"period_year"`
	ExpectedAmount *decimal.Decimal `db:"expected_amount" json:"expected_amount,omitempty"`

	FileName     string   `db:"file_name" json:"file_name"`
	OriginalName string   `db:"original_name" json:"original_name"`
	FileType     FileType `db:"file_type" json:"file_type"`
	FileSize     int64    `db:"file_size" json:"file_size"`
	S3Bucket     string   `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string   `db:"s3_key" json:"s3_key"`
	ContentType  string   `db:"content_type" json:"content_type"`

	Status           AnalysisStatus  `db:"status" json:"status"`
	AnalysisAttempts int             `db:"analysis_attempts" json:"analysis_attempts"`
	AnalysisError    string          `db:"analysis_error" json:"analysis_error"`
	AnalysisResult   json.RawMessage `db:"analysis_result" json:"analysis_result"`
	ValidationResult json.RawMessage `db:"validation_result" json:"validation_result"`
	AnalyzedAt       *time.Time      `db:"analyzed_at" json:"analyzed_at"`

	ReviewStatus  ReviewStatus `db:"review_status" json:"review_status"`
	ReviewedBy    *uuid.UUID   `db:"reviewed_by" json:"reviewed_by"`
	ReviewedAt    *time.Time   `db:"reviewed_at" json:"reviewed_at"`
	ReviewerNotes string       `db:"reviewer_notes" json:"reviewer_notes"`

	UploadedBy uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
