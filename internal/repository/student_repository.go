package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// StudentRepository handles student data access.
type StudentRepository interface {
	// List returns every student ordered by class name, then student name.
	List(ctx context.Context) ([]*model.Student, error)
	// ListByClass returns the students of one class ordered by name.
	ListByClass(ctx context.Context, classID int) ([]*model.Student, error)
	// ListInEnrollmentOrder returns every student ordered by id.
	ListInEnrollmentOrder(ctx context.Context) ([]*model.Student, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByNIS(ctx context.Context, nis string) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int) error
	// CountDependents counts attendance rows recorded for the student.
	CountDependents(ctx context.Context, id int) (int, error)
	// AssignClasses applies all assignments atomically.
	AssignClasses(ctx context.Context, assignments []model.ClassAssignment) error
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

const studentSelect = `
	SELECT s.id, s.nis, s.full_name, s.gender, s.class_id, c.name, s.created_at, s.updated_at
	FROM students s
	JOIN classes c ON c.id = s.class_id
`

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.NIS, &s.FullName, &s.Gender, &s.ClassID, &s.ClassName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *studentRepository) query(ctx context.Context, sql string, args ...any) ([]*model.Student, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []*model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *studentRepository) List(ctx context.Context) ([]*model.Student, error) {
	return r.query(ctx, studentSelect+` ORDER BY c.name ASC, s.full_name ASC`)
}

func (r *studentRepository) ListByClass(ctx context.Context, classID int) ([]*model.Student, error) {
	return r.query(ctx, studentSelect+` WHERE s.class_id = $1 ORDER BY s.full_name ASC`, classID)
}

func (r *studentRepository) ListInEnrollmentOrder(ctx context.Context) ([]*model.Student, error) {
	return r.query(ctx, studentSelect+` ORDER BY s.id ASC`)
}

// GetByID retrieves a student by ID.
func (r *studentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
}

// GetByNIS retrieves a student by their unique student number.
func (r *studentRepository) GetByNIS(ctx context.Context, nis string) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx, studentSelect+` WHERE s.nis = $1`, nis))
}

// Create inserts a new student.
func (r *studentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (nis, full_name, gender, class_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.NIS, s.FullName, s.Gender, s.ClassID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapWriteError(err)
}

// Update overwrites a student's profile and class.
func (r *studentRepository) Update(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE students
		 SET nis = $1, full_name = $2, gender = $3, class_id = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		s.NIS, s.FullName, s.Gender, s.ClassID, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapWriteError(err)
}

// Delete removes a student.
func (r *studentRepository) Delete(ctx context.Context, id int) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id))
}

func (r *studentRepository) CountDependents(ctx context.Context, id int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE student_id = $1`, id).Scan(&n)
	return n, err
}

// AssignClasses sends every update in one batch inside a transaction.
func (r *studentRepository) AssignClasses(ctx context.Context, assignments []model.ClassAssignment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, a := range assignments {
		batch.Queue(
			`UPDATE students SET class_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
			a.ClassID, a.StudentID,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range assignments {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return mapWriteError(err)
		}
	}
	if err := results.Close(); err != nil {
		return mapWriteError(err)
	}

	return tx.Commit(ctx)
}
