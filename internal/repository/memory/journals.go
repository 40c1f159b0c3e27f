package memory

import (
	"context"
	"sort"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

type journalRepository struct{ db *Store }

type attendanceKey struct {
	studentID  int
	scheduleID int
	date       string
}

// CreateWithAttendance validates every constraint before touching the tables, which
// gives the same all-or-nothing result as the database transaction.
func (r *journalRepository) CreateWithAttendance(_ context.Context, journal *model.Journal, rows []model.Attendance) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.schedules[journal.ScheduleID]; !ok {
		return repository.ErrInvalidReference
	}
	for _, jr := range r.db.journals {
		if jr.ScheduleID == journal.ScheduleID && jr.Date.Equal(journal.Date) {
			return repository.ErrDuplicate
		}
	}

	seen := make(map[attendanceKey]bool, len(r.db.attendances)+len(rows))
	for _, a := range r.db.attendances {
		seen[attendanceKey{a.StudentID, a.ScheduleID, a.Date.String()}] = true
	}
	for _, a := range rows {
		if _, ok := r.db.students[a.StudentID]; !ok {
			return repository.ErrInvalidReference
		}
		if _, ok := r.db.schedules[a.ScheduleID]; !ok {
			return repository.ErrInvalidReference
		}
		key := attendanceKey{a.StudentID, a.ScheduleID, a.Date.String()}
		if seen[key] {
			return repository.ErrDuplicate
		}
		seen[key] = true
	}

	journal.ID = r.db.nextID()
	journal.CreatedAt = r.db.Now()
	cp := *journal
	r.db.journals[journal.ID] = &cp
	r.db.attendances = append(r.db.attendances, rows...)
	return nil
}

func (r *journalRepository) ExistsForSession(_ context.Context, scheduleID int, date model.Date) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, jr := range r.db.journals {
		if jr.ScheduleID == scheduleID && jr.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *journalRepository) view(jr *model.Journal) *model.JournalView {
	v := &model.JournalView{Journal: *jr}
	if j, ok := r.db.schedules[jr.ScheduleID]; ok {
		v.TeacherName = r.db.staffName(j.TeacherID)
		v.ClassName = r.db.className(j.ClassID)
		v.SubjectName = r.db.subjectName(j.SubjectID)
	}
	return v
}

func (r *journalRepository) GetByID(_ context.Context, id int) (*model.JournalView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if jr, ok := r.db.journals[id]; ok {
		return r.view(jr), nil
	}
	return nil, repository.ErrNotFound
}

func (r *journalRepository) List(_ context.Context) ([]*model.JournalView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	journals := make([]*model.JournalView, 0, len(r.db.journals))
	for _, jr := range r.db.journals {
		journals = append(journals, r.view(jr))
	}
	sort.Slice(journals, func(i, j int) bool {
		if !journals[i].Date.Equal(journals[j].Date) {
			return journals[j].Date.Before(journals[i].Date)
		}
		return journals[i].ID > journals[j].ID
	})
	return journals, nil
}

func (r *journalRepository) ListAttendance(_ context.Context, scheduleID int, date model.Date) ([]model.AttendanceDetail, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	details := []model.AttendanceDetail{}
	for _, a := range r.db.attendances {
		if a.ScheduleID != scheduleID || !a.Date.Equal(date) {
			continue
		}
		d := model.AttendanceDetail{StudentID: a.StudentID, Status: a.Status}
		if s, ok := r.db.students[a.StudentID]; ok {
			d.NIS = s.NIS
			d.StudentName = s.FullName
		}
		details = append(details, d)
	}
	sort.Slice(details, func(i, j int) bool { return details[i].StudentName < details[j].StudentName })
	return details, nil
}
