package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// ScheduleRepository handles weekly teaching slots.
type ScheduleRepository interface {
	// List returns all slots ordered by weekday then start time.
	List(ctx context.Context) ([]*model.Schedule, error)
	// ListByTeacher returns a teacher's slots ordered by weekday then start time.
	ListByTeacher(ctx context.Context, teacherID int) ([]*model.Schedule, error)
	// ListOnDay returns slots on day that belong to the teacher or to the class.
	ListOnDay(ctx context.Context, day model.Weekday, teacherID, classID int) ([]*model.Schedule, error)
	// ListAssignments returns the classes and subjects a teacher covers, one row per slot.
	ListAssignments(ctx context.Context, teacherID int) ([]model.TeachingAssignment, error)
	GetByID(ctx context.Context, id int) (*model.Schedule, error)
	Create(ctx context.Context, s *model.Schedule) error
	Delete(ctx context.Context, id int) error
	// CountDependents counts journals and attendance rows recorded against the slot.
	CountDependents(ctx context.Context, id int) (int, error)
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

const scheduleSelect = `
	SELECT j.id, j.day, j.start_time, j.end_time, j.teacher_id, j.class_id, j.subject_id,
	       g.full_name, c.name, m.name, j.created_at
	FROM schedules j
	JOIN staff g ON g.id = j.teacher_id
	JOIN classes c ON c.id = j.class_id
	JOIN subjects m ON m.id = j.subject_id
`

const scheduleOrder = ` ORDER BY array_position(ARRAY['Senin','Selasa','Rabu','Kamis','Jumat','Sabtu','Minggu']::varchar[], j.day), j.start_time`

func scanSchedule(row pgx.Row) (*model.Schedule, error) {
	s := &model.Schedule{}
	err := row.Scan(&s.ID, &s.Day, &s.StartTime, &s.EndTime, &s.TeacherID, &s.ClassID, &s.SubjectID,
		&s.TeacherName, &s.ClassName, &s.SubjectName, &s.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *scheduleRepository) query(ctx context.Context, sql string, args ...any) ([]*model.Schedule, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []*model.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *scheduleRepository) List(ctx context.Context) ([]*model.Schedule, error) {
	return r.query(ctx, scheduleSelect+scheduleOrder)
}

func (r *scheduleRepository) ListByTeacher(ctx context.Context, teacherID int) ([]*model.Schedule, error) {
	return r.query(ctx, scheduleSelect+` WHERE j.teacher_id = $1`+scheduleOrder, teacherID)
}

func (r *scheduleRepository) ListOnDay(ctx context.Context, day model.Weekday, teacherID, classID int) ([]*model.Schedule, error) {
	return r.query(ctx,
		scheduleSelect+` WHERE j.day = $1 AND (j.teacher_id = $2 OR j.class_id = $3) ORDER BY j.start_time`,
		day, teacherID, classID,
	)
}

func (r *scheduleRepository) ListAssignments(ctx context.Context, teacherID int) ([]model.TeachingAssignment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, m.name, j.id
		FROM schedules j
		JOIN classes c ON c.id = j.class_id
		JOIN subjects m ON m.id = j.subject_id
		WHERE j.teacher_id = $1
		ORDER BY c.name, m.name, j.id
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []model.TeachingAssignment{}
	for rows.Next() {
		var a model.TeachingAssignment
		if err := rows.Scan(&a.ClassID, &a.ClassName, &a.SubjectName, &a.ScheduleID); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int) (*model.Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx, scheduleSelect+` WHERE j.id = $1`, id))
}

func (r *scheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO schedules (day, start_time, end_time, teacher_id, class_id, subject_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		s.Day, s.StartTime, s.EndTime, s.TeacherID, s.ClassID, s.SubjectID,
	).Scan(&s.ID, &s.CreatedAt)
	return mapWriteError(err)
}

func (r *scheduleRepository) Delete(ctx context.Context, id int) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id))
}

func (r *scheduleRepository) CountDependents(ctx context.Context, id int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM journals WHERE schedule_id = $1)
		     + (SELECT COUNT(*) FROM attendances WHERE schedule_id = $1)
	`, id).Scan(&n)
	return n, err
}
