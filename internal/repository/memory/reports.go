package memory

import (
	"context"
	"sort"

	"github.com/stemsi/ejurnal-backend/internal/model"
)

type reportRepository struct{ db *Store }

type sessionKey struct {
	date       string
	scheduleID int
}

func (r *reportRepository) SessionSummaries(_ context.Context) ([]model.SessionSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	groups := make(map[sessionKey]*model.SessionSummary)
	for _, a := range r.db.attendances {
		key := sessionKey{a.Date.String(), a.ScheduleID}
		s, ok := groups[key]
		if !ok {
			s = &model.SessionSummary{Date: a.Date, ScheduleID: a.ScheduleID}
			if j, found := r.db.schedules[a.ScheduleID]; found {
				s.ClassName = r.db.className(j.ClassID)
				s.SubjectName = r.db.subjectName(j.SubjectID)
				s.TeacherName = r.db.staffName(j.TeacherID)
			}
			groups[key] = s
		}
		switch a.Status {
		case model.StatusPresent:
			s.Present++
		case model.StatusSick:
			s.Sick++
		case model.StatusExcused:
			s.Excused++
		case model.StatusAbsent:
			s.Absent++
		}
	}

	summaries := make([]model.SessionSummary, 0, len(groups))
	for _, s := range groups {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		x, y := summaries[i], summaries[j]
		if !x.Date.Equal(y.Date) {
			return y.Date.Before(x.Date)
		}
		if x.ClassName != y.ClassName {
			return x.ClassName < y.ClassName
		}
		return x.ScheduleID < y.ScheduleID
	})
	return summaries, nil
}

func (r *reportRepository) JournalSummaries(_ context.Context) ([]model.JournalSummary, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	summaries := make([]model.JournalSummary, 0, len(r.db.journals))
	for _, jr := range r.db.journals {
		s := model.JournalSummary{ID: jr.ID, Date: jr.Date, Topic: jr.Topic}
		if j, ok := r.db.schedules[jr.ScheduleID]; ok {
			s.ClassName = r.db.className(j.ClassID)
			s.SubjectName = r.db.subjectName(j.SubjectID)
			s.TeacherName = r.db.staffName(j.TeacherID)
			s.Period = j.Period()
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].Date.Equal(summaries[j].Date) {
			return summaries[j].Date.Before(summaries[i].Date)
		}
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}

func (r *reportRepository) HeadlineCounts(_ context.Context, day model.Date) (model.HeadlineCounts, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c := model.HeadlineCounts{
		Students: len(r.db.students),
		Classes:  len(r.db.classes),
	}
	for _, g := range r.db.staff {
		if g.Role == model.RoleTeacher {
			c.Teachers++
		}
	}
	for _, a := range r.db.attendances {
		if !a.Date.Equal(day) {
			continue
		}
		c.RecordsToday++
		if a.Status == model.StatusPresent {
			c.PresentToday++
		}
	}
	return c, nil
}

func (r *reportRepository) StudentStatusCounts(_ context.Context, from, to model.Date) ([]model.StudentStatusCount, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	type key struct {
		studentID int
		status    model.AttendanceStatus
	}
	totals := make(map[key]int)
	for _, a := range r.db.attendances {
		if a.Date.Before(from) || to.Before(a.Date) {
			continue
		}
		totals[key{a.StudentID, a.Status}]++
	}

	counts := make([]model.StudentStatusCount, 0, len(totals))
	for k, n := range totals {
		counts = append(counts, model.StudentStatusCount{StudentID: k.studentID, Status: k.status, Count: n})
	}
	return counts, nil
}
