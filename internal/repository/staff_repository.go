package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// StaffRepository is the credential store for teachers and principals.
type StaffRepository interface {
	List(ctx context.Context) ([]*model.Staff, error)
	GetByID(ctx context.Context, id int) (*model.Staff, error)
	GetByNIP(ctx context.Context, nip string) (*model.Staff, error)
	Create(ctx context.Context, staff *model.Staff) error
	// Update rewrites the account identified by staff.NIP.
	Update(ctx context.Context, staff *model.Staff) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffSelect = `
	SELECT id, nip, full_name, password_hash, role, is_homeroom, major_id, created_at, updated_at
	FROM staff
`

func scanStaff(row pgx.Row) (*model.Staff, error) {
	s := &model.Staff{}
	err := row.Scan(&s.ID, &s.NIP, &s.FullName, &s.PasswordHash, &s.Role, &s.IsHomeroom, &s.MajorID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *staffRepository) List(ctx context.Context) ([]*model.Staff, error) {
	rows, err := r.pool.Query(ctx, staffSelect+` ORDER BY full_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staff := []*model.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (r *staffRepository) GetByID(ctx context.Context, id int) (*model.Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx, staffSelect+` WHERE id = $1`, id))
}

func (r *staffRepository) GetByNIP(ctx context.Context, nip string) (*model.Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx, staffSelect+` WHERE nip = $1`, nip))
}

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO staff (nip, full_name, password_hash, role, is_homeroom, major_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		staff.NIP, staff.FullName, staff.PasswordHash, staff.Role, staff.IsHomeroom, staff.MajorID,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	return mapWriteError(err)
}

func (r *staffRepository) Update(ctx context.Context, staff *model.Staff) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE staff
		 SET full_name = $1, password_hash = $2, role = $3, is_homeroom = $4, major_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE nip = $6
		 RETURNING id, created_at, updated_at`,
		staff.FullName, staff.PasswordHash, staff.Role, staff.IsHomeroom, staff.MajorID, staff.NIP,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
	return mapWriteError(err)
}
