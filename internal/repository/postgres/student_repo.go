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

type studentRepo struct {
	db *sqlx.DB
}

// NewStudentRepo creates a new PostgreSQL-backed StudentRepository.
func NewStudentRepo(db *sqlx.DB) port.StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *domain.Student) error {
	student.ID = uuid.New()
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	query := `INSERT INTO students (id, first_name, last_name, student_number, class_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		student.ID, student.FirstName, student.LastName, student.StudentNumber,
		student.ClassName, student.IsActive, student.CreatedAt, student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("studentRepo.Create: %w", err)
	}
	return nil
}

func (r *studentRepo) GetByID(ctx context.Context, studentID uuid.UUID) (*domain.Student, error) {
	var student domain.Student
	err := r.db.GetContext(ctx, &student,
		"SELECT * FROM students WHERE id = $1", studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("studentRepo.GetByID: %w", err)
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, offset, limit int) ([]domain.Student, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		return nil, 0, fmt.Errorf("studentRepo.List count: %w", err)
	}

	var students []domain.Student
	err := r.db.SelectContext(ctx, &students,
		"SELECT * FROM students ORDER BY last_name, first_name LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("studentRepo.List: %w", err)
	}
	return students, total, nil
}

func (r *studentRepo) Update(ctx context.Context, student *domain.Student) error {
	student.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE students SET first_name = $1, last_name = $2, student_number = $3,
			class_name = $4, is_active = $5, updated_at = $6
		 WHERE id = $7`,
		student.FirstName, student.LastName, student.StudentNumber,
		student.ClassName, student.IsActive, student.UpdatedAt, student.ID)
	if err != nil {
		return fmt.Errorf("studentRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
