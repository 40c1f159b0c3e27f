package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// JournalRepository stores journals together with their attendance batch.
type JournalRepository interface {
	// CreateWithAttendance writes the journal and every attendance row in one
	// transaction. Nothing is persisted when any row fails.
	CreateWithAttendance(ctx context.Context, journal *model.Journal, rows []model.Attendance) error
	ExistsForSession(ctx context.Context, scheduleID int, date model.Date) (bool, error)
	GetByID(ctx context.Context, id int) (*model.JournalView, error)
	// List returns every journal, newest first.
	List(ctx context.Context) ([]*model.JournalView, error)
	// ListAttendance returns the attendance of one session ordered by student name.
	ListAttendance(ctx context.Context, scheduleID int, date model.Date) ([]model.AttendanceDetail, error)
}

type journalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) JournalRepository {
	return &journalRepository{pool: pool}
}

func (r *journalRepository) CreateWithAttendance(ctx context.Context, journal *model.Journal, rows []model.Attendance) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO journals (schedule_id, date, topic, activity_notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		journal.ScheduleID, journal.Date.Time, journal.Topic, journal.ActivityNotes,
	).Scan(&journal.ID, &journal.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert journal: %w", mapWriteError(err))
	}

	copyRows := make([][]any, 0, len(rows))
	for _, a := range rows {
		copyRows = append(copyRows, []any{a.StudentID, a.ScheduleID, a.Date.Time, string(a.Status)})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"attendances"},
		[]string{"student_id", "schedule_id", "date", "status"},
		pgx.CopyFromRows(copyRows),
	)
	if err != nil {
		return fmt.Errorf("copy attendance: %w", mapWriteError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit journal: %w", err)
	}
	return nil
}

func (r *journalRepository) ExistsForSession(ctx context.Context, scheduleID int, date model.Date) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM journals WHERE schedule_id = $1 AND date = $2)`,
		scheduleID, date.Time,
	).Scan(&exists)
	return exists, err
}

const journalSelect = `
	SELECT jr.id, jr.schedule_id, jr.date, jr.topic, jr.activity_notes, jr.created_at,
	       g.full_name, c.name, m.name
	FROM journals jr
	JOIN schedules j ON j.id = jr.schedule_id
	JOIN staff g ON g.id = j.teacher_id
	JOIN classes c ON c.id = j.class_id
	JOIN subjects m ON m.id = j.subject_id
`

func scanJournal(row pgx.Row) (*model.JournalView, error) {
	v := &model.JournalView{}
	err := row.Scan(&v.ID, &v.ScheduleID, &v.Date.Time, &v.Topic, &v.ActivityNotes, &v.CreatedAt,
		&v.TeacherName, &v.ClassName, &v.SubjectName)
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *journalRepository) GetByID(ctx context.Context, id int) (*model.JournalView, error) {
	return scanJournal(r.pool.QueryRow(ctx, journalSelect+` WHERE jr.id = $1`, id))
}

func (r *journalRepository) List(ctx context.Context) ([]*model.JournalView, error) {
	rows, err := r.pool.Query(ctx, journalSelect+` ORDER BY jr.date DESC, jr.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journals := []*model.JournalView{}
	for rows.Next() {
		v, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, v)
	}
	return journals, rows.Err()
}

func (r *journalRepository) ListAttendance(ctx context.Context, scheduleID int, date model.Date) ([]model.AttendanceDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.nis, s.full_name, a.status
		FROM attendances a
		JOIN students s ON s.id = a.student_id
		WHERE a.schedule_id = $1 AND a.date = $2
		ORDER BY s.full_name ASC
	`, scheduleID, date.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []model.AttendanceDetail{}
	for rows.Next() {
		var d model.AttendanceDetail
		if err := rows.Scan(&d.StudentID, &d.NIS, &d.StudentName, &d.Status); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
