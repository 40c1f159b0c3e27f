package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// SubjectRepository handles subject data access.
type SubjectRepository interface {
	List(ctx context.Context) ([]*model.Subject, error)
	GetByID(ctx context.Context, id int) (*model.Subject, error)
	GetByName(ctx context.Context, name string) (*model.Subject, error)
	Create(ctx context.Context, subject *model.Subject) error
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id int) error
	// CountDependents counts schedule slots teaching the subject.
	CountDependents(ctx context.Context, id int) (int, error)
}

type subjectRepository struct {
	db *pgxpool.Pool
}

func NewSubjectRepository(db *pgxpool.Pool) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) List(ctx context.Context) ([]*model.Subject, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM subjects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := []*model.Subject{}
	for rows.Next() {
		s := &model.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *subjectRepository) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	s := &model.Subject{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *subjectRepository) GetByName(ctx context.Context, name string) (*model.Subject, error) {
	s := &model.Subject{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM subjects WHERE name = $1`, name,
	).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO subjects (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		subject.Name,
	).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
	return mapWriteError(err)
}

func (r *subjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	err := r.db.QueryRow(ctx,
		`UPDATE subjects SET name = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 RETURNING created_at, updated_at`,
		subject.Name, subject.ID,
	).Scan(&subject.CreatedAt, &subject.UpdatedAt)
	return mapWriteError(err)
}

func (r *subjectRepository) Delete(ctx context.Context, id int) error {
	return expectAffected(r.db.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id))
}

func (r *subjectRepository) CountDependents(ctx context.Context, id int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM schedules WHERE subject_id = $1`, id).Scan(&n)
	return n, err
}
