package memory

import (
	"context"
	"sort"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

type studentRepository struct{ db *Store }

func (r *studentRepository) view(s *model.Student) *model.Student {
	cp := *s
	cp.ClassName = r.db.className(s.ClassID)
	return &cp
}

func (r *studentRepository) all() []*model.Student {
	students := make([]*model.Student, 0, len(r.db.students))
	for _, s := range r.db.students {
		students = append(students, r.view(s))
	}
	return students
}

func (r *studentRepository) List(_ context.Context) ([]*model.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	students := r.all()
	sort.Slice(students, func(i, j int) bool {
		if students[i].ClassName != students[j].ClassName {
			return students[i].ClassName < students[j].ClassName
		}
		return students[i].FullName < students[j].FullName
	})
	return students, nil
}

func (r *studentRepository) ListByClass(_ context.Context, classID int) ([]*model.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	students := []*model.Student{}
	for _, s := range r.all() {
		if s.ClassID == classID {
			students = append(students, s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].FullName < students[j].FullName })
	return students, nil
}

func (r *studentRepository) ListInEnrollmentOrder(_ context.Context) ([]*model.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	students := r.all()
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (r *studentRepository) GetByID(_ context.Context, id int) (*model.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if s, ok := r.db.students[id]; ok {
		return r.view(s), nil
	}
	return nil, repository.ErrNotFound
}

func (r *studentRepository) GetByNIS(_ context.Context, nis string) (*model.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.students {
		if s.NIS == nis {
			return r.view(s), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *studentRepository) checkWrite(student *model.Student) error {
	for _, s := range r.db.students {
		if s.ID != student.ID && s.NIS == student.NIS {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.db.classes[student.ClassID]; !ok {
		return repository.ErrInvalidReference
	}
	return nil
}

func (r *studentRepository) Create(_ context.Context, s *model.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkWrite(s); err != nil {
		return err
	}
	s.ID = r.db.nextID()
	s.CreatedAt = r.db.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	cp.ClassName = ""
	r.db.students[s.ID] = &cp
	return nil
}

func (r *studentRepository) Update(_ context.Context, s *model.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.students[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkWrite(s); err != nil {
		return err
	}
	existing.NIS = s.NIS
	existing.FullName = s.FullName
	existing.Gender = s.Gender
	existing.ClassID = s.ClassID
	existing.UpdatedAt = r.db.Now()
	*s = *existing
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id int) error {
	n, err := r.CountDependents(ctx, id)
	if err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.students[id]; !ok {
		return repository.ErrNotFound
	}
	if n > 0 {
		return repository.ErrReferenced
	}
	delete(r.db.students, id)
	return nil
}

func (r *studentRepository) CountDependents(_ context.Context, id int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, a := range r.db.attendances {
		if a.StudentID == id {
			n++
		}
	}
	return n, nil
}

func (r *studentRepository) AssignClasses(_ context.Context, assignments []model.ClassAssignment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range assignments {
		if _, ok := r.db.students[a.StudentID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := r.db.classes[a.ClassID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	now := r.db.Now()
	for _, a := range assignments {
		r.db.students[a.StudentID].ClassID = a.ClassID
		r.db.students[a.StudentID].UpdatedAt = now
	}
	return nil
}
