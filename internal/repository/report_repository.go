package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// ReportRepository runs the read-only aggregate queries behind the principal's reports.
type ReportRepository interface {
	// SessionSummaries groups attendance by (date, schedule), newest first.
	// The ID field is left zero.
	SessionSummaries(ctx context.Context) ([]model.SessionSummary, error)
	// JournalSummaries lists journals with their session labels, newest first.
	JournalSummaries(ctx context.Context) ([]model.JournalSummary, error)
	// HeadlineCounts returns master data totals and the attendance tally of day.
	HeadlineCounts(ctx context.Context, day model.Date) (model.HeadlineCounts, error)
	// StudentStatusCounts groups attendance in [from, to] by (student, status).
	StudentStatusCounts(ctx context.Context, from, to model.Date) ([]model.StudentStatusCount, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) SessionSummaries(ctx context.Context) ([]model.SessionSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.date, a.schedule_id, c.name, m.name, g.full_name,
		       COUNT(*) FILTER (WHERE a.status = 'H'),
		       COUNT(*) FILTER (WHERE a.status = 'S'),
		       COUNT(*) FILTER (WHERE a.status = 'I'),
		       COUNT(*) FILTER (WHERE a.status = 'A')
		FROM attendances a
		JOIN schedules j ON j.id = a.schedule_id
		JOIN classes c ON c.id = j.class_id
		JOIN subjects m ON m.id = j.subject_id
		JOIN staff g ON g.id = j.teacher_id
		GROUP BY a.date, a.schedule_id, c.name, m.name, g.full_name
		ORDER BY a.date DESC, c.name ASC, a.schedule_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.SessionSummary{}
	for rows.Next() {
		var s model.SessionSummary
		if err := rows.Scan(&s.Date.Time, &s.ScheduleID, &s.ClassName, &s.SubjectName, &s.TeacherName,
			&s.Present, &s.Sick, &s.Excused, &s.Absent); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *reportRepository) JournalSummaries(ctx context.Context) ([]model.JournalSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT jr.id, jr.date, c.name, m.name, g.full_name, j.start_time, j.end_time, jr.topic
		FROM journals jr
		JOIN schedules j ON j.id = jr.schedule_id
		JOIN classes c ON c.id = j.class_id
		JOIN subjects m ON m.id = j.subject_id
		JOIN staff g ON g.id = j.teacher_id
		ORDER BY jr.date DESC, jr.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.JournalSummary{}
	for rows.Next() {
		var (
			s    model.JournalSummary
			slot model.Schedule
		)
		if err := rows.Scan(&s.ID, &s.Date.Time, &s.ClassName, &s.SubjectName, &s.TeacherName,
			&slot.StartTime, &slot.EndTime, &s.Topic); err != nil {
			return nil, err
		}
		s.Period = slot.Period()
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *reportRepository) HeadlineCounts(ctx context.Context, day model.Date) (model.HeadlineCounts, error) {
	var c model.HeadlineCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM staff WHERE role = 'guru'),
			(SELECT COUNT(*) FROM classes),
			(SELECT COUNT(*) FROM attendances WHERE date = $1 AND status = 'H'),
			(SELECT COUNT(*) FROM attendances WHERE date = $1)
	`, day.Time).Scan(&c.Students, &c.Teachers, &c.Classes, &c.PresentToday, &c.RecordsToday)
	return c, err
}

func (r *reportRepository) StudentStatusCounts(ctx context.Context, from, to model.Date) ([]model.StudentStatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT student_id, status, COUNT(*)
		FROM attendances
		WHERE date BETWEEN $1 AND $2
		GROUP BY student_id, status
	`, from.Time, to.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []model.StudentStatusCount{}
	for rows.Next() {
		var c model.StudentStatusCount
		if err := rows.Scan(&c.StudentID, &c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
