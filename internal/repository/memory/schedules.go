package memory

import (
	"context"
	"sort"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

type scheduleRepository struct{ db *Store }

func (r *scheduleRepository) view(j *model.Schedule) *model.Schedule {
	cp := *j
	cp.TeacherName = r.db.staffName(j.TeacherID)
	cp.ClassName = r.db.className(j.ClassID)
	cp.SubjectName = r.db.subjectName(j.SubjectID)
	return &cp
}

func (r *scheduleRepository) filter(keep func(*model.Schedule) bool) []*model.Schedule {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	slots := []*model.Schedule{}
	for _, j := range r.db.schedules {
		if keep(j) {
			slots = append(slots, r.view(j))
		}
	}
	sort.Slice(slots, func(a, b int) bool {
		if slots[a].Day != slots[b].Day {
			return slots[a].Day.Order() < slots[b].Day.Order()
		}
		if slots[a].StartTime != slots[b].StartTime {
			return slots[a].StartTime < slots[b].StartTime
		}
		return slots[a].ID < slots[b].ID
	})
	return slots
}

func (r *scheduleRepository) List(_ context.Context) ([]*model.Schedule, error) {
	return r.filter(func(*model.Schedule) bool { return true }), nil
}

func (r *scheduleRepository) ListByTeacher(_ context.Context, teacherID int) ([]*model.Schedule, error) {
	return r.filter(func(j *model.Schedule) bool { return j.TeacherID == teacherID }), nil
}

func (r *scheduleRepository) ListOnDay(_ context.Context, day model.Weekday, teacherID, classID int) ([]*model.Schedule, error) {
	return r.filter(func(j *model.Schedule) bool {
		return j.Day == day && (j.TeacherID == teacherID || j.ClassID == classID)
	}), nil
}

func (r *scheduleRepository) ListAssignments(_ context.Context, teacherID int) ([]model.TeachingAssignment, error) {
	slots := r.filter(func(j *model.Schedule) bool { return j.TeacherID == teacherID })

	assignments := make([]model.TeachingAssignment, 0, len(slots))
	for _, j := range slots {
		assignments = append(assignments, model.TeachingAssignment{
			ClassID:     j.ClassID,
			ClassName:   j.ClassName,
			SubjectName: j.SubjectName,
			ScheduleID:  j.ID,
		})
	}
	sort.Slice(assignments, func(a, b int) bool {
		x, y := assignments[a], assignments[b]
		if x.ClassName != y.ClassName {
			return x.ClassName < y.ClassName
		}
		if x.SubjectName != y.SubjectName {
			return x.SubjectName < y.SubjectName
		}
		return x.ScheduleID < y.ScheduleID
	})
	return assignments, nil
}

func (r *scheduleRepository) GetByID(_ context.Context, id int) (*model.Schedule, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if j, ok := r.db.schedules[id]; ok {
		return r.view(j), nil
	}
	return nil, repository.ErrNotFound
}

func (r *scheduleRepository) Create(_ context.Context, s *model.Schedule) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.staff[s.TeacherID]; !ok {
		return repository.ErrInvalidReference
	}
	if _, ok := r.db.classes[s.ClassID]; !ok {
		return repository.ErrInvalidReference
	}
	if _, ok := r.db.subjects[s.SubjectID]; !ok {
		return repository.ErrInvalidReference
	}
	s.ID = r.db.nextID()
	s.CreatedAt = r.db.Now()
	cp := *s
	r.db.schedules[s.ID] = &cp
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id int) error {
	n, err := r.CountDependents(ctx, id)
	if err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.schedules[id]; !ok {
		return repository.ErrNotFound
	}
	if n > 0 {
		return repository.ErrReferenced
	}
	delete(r.db.schedules, id)
	return nil
}

func (r *scheduleRepository) CountDependents(_ context.Context, id int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, jr := range r.db.journals {
		if jr.ScheduleID == id {
			n++
		}
	}
	for _, a := range r.db.attendances {
		if a.ScheduleID == id {
			n++
		}
	}
	return n, nil
}
