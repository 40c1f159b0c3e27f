package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository interface {
	// List returns all classes ordered by name.
	List(ctx context.Context) ([]*model.Class, error)
	GetByID(ctx context.Context, id int) (*model.Class, error)
	GetByName(ctx context.Context, name string) (*model.Class, error)
	Create(ctx context.Context, class *model.Class) error
	Update(ctx context.Context, class *model.Class) error
	Delete(ctx context.Context, id int) error
	// CountDependents counts students and schedule slots attached to the class.
	CountDependents(ctx context.Context, id int) (int, error)
}

type classRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) ClassRepository {
	return &classRepository{pool: pool}
}

const classSelect = `
	SELECT c.id, c.name, c.major_id, m.name, c.homeroom_teacher_id, c.created_at, c.updated_at
	FROM classes c
	JOIN majors m ON m.id = c.major_id
`

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.MajorID, &c.MajorName, &c.HomeroomTeacherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *classRepository) List(ctx context.Context) ([]*model.Class, error) {
	rows, err := r.pool.Query(ctx, classSelect+` ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []*model.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *classRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx, classSelect+` WHERE c.id = $1`, id))
}

func (r *classRepository) GetByName(ctx context.Context, name string) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx, classSelect+` WHERE c.name = $1`, name))
}

func (r *classRepository) Create(ctx context.Context, class *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, major_id, homeroom_teacher_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		class.Name, class.MajorID, class.HomeroomTeacherID,
	).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	return mapWriteError(err)
}

func (r *classRepository) Update(ctx context.Context, class *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE classes
		 SET name = $1, major_id = $2, homeroom_teacher_id = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 RETURNING created_at, updated_at`,
		class.Name, class.MajorID, class.HomeroomTeacherID, class.ID,
	).Scan(&class.CreatedAt, &class.UpdatedAt)
	return mapWriteError(err)
}

func (r *classRepository) Delete(ctx context.Context, id int) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id))
}

func (r *classRepository) CountDependents(ctx context.Context, id int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM students WHERE class_id = $1)
		     + (SELECT COUNT(*) FROM schedules WHERE class_id = $1)
	`, id).Scan(&n)
	return n, err
}
