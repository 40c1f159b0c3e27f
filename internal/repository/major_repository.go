package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

type MajorRepository interface {
	List(ctx context.Context) ([]*model.Major, error)
	GetByID(ctx context.Context, id int) (*model.Major, error)
	GetByName(ctx context.Context, name string) (*model.Major, error)
	Create(ctx context.Context, major *model.Major) error
	Update(ctx context.Context, major *model.Major) error
	Delete(ctx context.Context, id int) error
	// CountDependents counts classes and staff that reference the major.
	CountDependents(ctx context.Context, id int) (int, error)
}

type majorRepository struct {
	db *pgxpool.Pool
}

func NewMajorRepository(db *pgxpool.Pool) MajorRepository {
	return &majorRepository{db: db}
}

func (r *majorRepository) List(ctx context.Context) ([]*model.Major, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM majors ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	majors := []*model.Major{}
	for rows.Next() {
		m := &model.Major{}
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		majors = append(majors, m)
	}
	return majors, rows.Err()
}

func (r *majorRepository) GetByID(ctx context.Context, id int) (*model.Major, error) {
	m := &model.Major{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM majors WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *majorRepository) GetByName(ctx context.Context, name string) (*model.Major, error) {
	m := &model.Major{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM majors WHERE name = $1`, name,
	).Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *majorRepository) Create(ctx context.Context, major *model.Major) error {
	query := `
		INSERT INTO majors (name)
		VALUES ($1)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, major.Name).Scan(&major.ID, &major.CreatedAt, &major.UpdatedAt)
	return mapWriteError(err)
}

func (r *majorRepository) Update(ctx context.Context, major *model.Major) error {
	query := `
		UPDATE majors
		SET name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, major.Name, major.ID).Scan(&major.CreatedAt, &major.UpdatedAt)
	return mapWriteError(err)
}

func (r *majorRepository) Delete(ctx context.Context, id int) error {
	return expectAffected(r.db.Exec(ctx, `DELETE FROM majors WHERE id = $1`, id))
}

func (r *majorRepository) CountDependents(ctx context.Context, id int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM classes WHERE major_id = $1)
		     + (SELECT COUNT(*) FROM staff WHERE major_id = $1)
	`, id).Scan(&n)
	return n, err
}
