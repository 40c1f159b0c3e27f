package memory

import (
	"context"
	"sort"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// ─── Majors ─────────────────────────────────────────────────────────────────

type majorRepository struct{ db *Store }

func (r *majorRepository) List(_ context.Context) ([]*model.Major, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	majors := make([]*model.Major, 0, len(r.db.majors))
	for _, m := range r.db.majors {
		cp := *m
		majors = append(majors, &cp)
	}
	sort.Slice(majors, func(i, j int) bool { return majors[i].Name < majors[j].Name })
	return majors, nil
}

func (r *majorRepository) GetByID(_ context.Context, id int) (*model.Major, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if m, ok := r.db.majors[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *majorRepository) GetByName(_ context.Context, name string) (*model.Major, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, m := range r.db.majors {
		if m.Name == name {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *majorRepository) Create(_ context.Context, major *model.Major) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, m := range r.db.majors {
		if m.Name == major.Name {
			return repository.ErrDuplicate
		}
	}
	major.ID = r.db.nextID()
	major.CreatedAt = r.db.Now()
	major.UpdatedAt = major.CreatedAt
	cp := *major
	r.db.majors[major.ID] = &cp
	return nil
}

func (r *majorRepository) Update(_ context.Context, major *model.Major) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.majors[major.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, m := range r.db.majors {
		if m.ID != major.ID && m.Name == major.Name {
			return repository.ErrDuplicate
		}
	}
	existing.Name = major.Name
	existing.UpdatedAt = r.db.Now()
	*major = *existing
	return nil
}

func (r *majorRepository) Delete(ctx context.Context, id int) error {
	n, err := r.CountDependents(ctx, id)
	if err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.majors[id]; !ok {
		return repository.ErrNotFound
	}
	if n > 0 {
		return repository.ErrReferenced
	}
	delete(r.db.majors, id)
	return nil
}

func (r *majorRepository) CountDependents(_ context.Context, id int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, c := range r.db.classes {
		if c.MajorID == id {
			n++
		}
	}
	for _, g := range r.db.staff {
		if g.MajorID != nil && *g.MajorID == id {
			n++
		}
	}
	return n, nil
}

// ─── Subjects ───────────────────────────────────────────────────────────────

type subjectRepository struct{ db *Store }

func (r *subjectRepository) List(_ context.Context) ([]*model.Subject, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	subjects := make([]*model.Subject, 0, len(r.db.subjects))
	for _, s := range r.db.subjects {
		cp := *s
		subjects = append(subjects, &cp)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects, nil
}

func (r *subjectRepository) GetByID(_ context.Context, id int) (*model.Subject, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if s, ok := r.db.subjects[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *subjectRepository) GetByName(_ context.Context, name string) (*model.Subject, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.subjects {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *subjectRepository) Create(_ context.Context, subject *model.Subject) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.subjects {
		if s.Name == subject.Name {
			return repository.ErrDuplicate
		}
	}
	subject.ID = r.db.nextID()
	subject.CreatedAt = r.db.Now()
	subject.UpdatedAt = subject.CreatedAt
	cp := *subject
	r.db.subjects[subject.ID] = &cp
	return nil
}

func (r *subjectRepository) Update(_ context.Context, subject *model.Subject) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.subjects[subject.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, s := range r.db.subjects {
		if s.ID != subject.ID && s.Name == subject.Name {
			return repository.ErrDuplicate
		}
	}
	existing.Name = subject.Name
	existing.UpdatedAt = r.db.Now()
	*subject = *existing
	return nil
}

func (r *subjectRepository) Delete(ctx context.Context, id int) error {
	n, err := r.CountDependents(ctx, id)
	if err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.subjects[id]; !ok {
		return repository.ErrNotFound
	}
	if n > 0 {
		return repository.ErrReferenced
	}
	delete(r.db.subjects, id)
	return nil
}

func (r *subjectRepository) CountDependents(_ context.Context, id int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, j := range r.db.schedules {
		if j.SubjectID == id {
			n++
		}
	}
	return n, nil
}

// ─── Classes ────────────────────────────────────────────────────────────────

type classRepository struct{ db *Store }

func (r *classRepository) view(c *model.Class) *model.Class {
	cp := *c
	if m, ok := r.db.majors[c.MajorID]; ok {
		cp.MajorName = m.Name
	}
	return &cp
}

func (r *classRepository) List(_ context.Context) ([]*model.Class, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	classes := make([]*model.Class, 0, len(r.db.classes))
	for _, c := range r.db.classes {
		classes = append(classes, r.view(c))
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (r *classRepository) GetByID(_ context.Context, id int) (*model.Class, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if c, ok := r.db.classes[id]; ok {
		return r.view(c), nil
	}
	return nil, repository.ErrNotFound
}

func (r *classRepository) GetByName(_ context.Context, name string) (*model.Class, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.classes {
		if c.Name == name {
			return r.view(c), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *classRepository) checkWrite(class *model.Class) error {
	for _, c := range r.db.classes {
		if c.ID != class.ID && c.Name == class.Name {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.db.majors[class.MajorID]; !ok {
		return repository.ErrInvalidReference
	}
	if class.HomeroomTeacherID != nil {
		if _, ok := r.db.staff[*class.HomeroomTeacherID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	return nil
}

func (r *classRepository) Create(_ context.Context, class *model.Class) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkWrite(class); err != nil {
		return err
	}
	class.ID = r.db.nextID()
	class.CreatedAt = r.db.Now()
	class.UpdatedAt = class.CreatedAt
	cp := *class
	r.db.classes[class.ID] = &cp
	return nil
}

func (r *classRepository) Update(_ context.Context, class *model.Class) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.classes[class.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkWrite(class); err != nil {
		return err
	}
	existing.Name = class.Name
	existing.MajorID = class.MajorID
	existing.HomeroomTeacherID = class.HomeroomTeacherID
	existing.UpdatedAt = r.db.Now()
	*class = *existing
	return nil
}

func (r *classRepository) Delete(ctx context.Context, id int) error {
	n, err := r.CountDependents(ctx, id)
	if err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.classes[id]; !ok {
		return repository.ErrNotFound
	}
	if n > 0 {
		return repository.ErrReferenced
	}
	delete(r.db.classes, id)
	return nil
}

func (r *classRepository) CountDependents(_ context.Context, id int) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, s := range r.db.students {
		if s.ClassID == id {
			n++
		}
	}
	for _, j := range r.db.schedules {
		if j.ClassID == id {
			n++
		}
	}
	return n, nil
}

// ─── Staff ──────────────────────────────────────────────────────────────────

type staffRepository struct{ db *Store }

func (r *staffRepository) List(_ context.Context) ([]*model.Staff, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	staff := make([]*model.Staff, 0, len(r.db.staff))
	for _, g := range r.db.staff {
		cp := *g
		staff = append(staff, &cp)
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].FullName < staff[j].FullName })
	return staff, nil
}

func (r *staffRepository) GetByID(_ context.Context, id int) (*model.Staff, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if g, ok := r.db.staff[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *staffRepository) GetByNIP(_ context.Context, nip string) (*model.Staff, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, g := range r.db.staff {
		if g.NIP == nip {
			cp := *g
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *staffRepository) Create(_ context.Context, staff *model.Staff) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, g := range r.db.staff {
		if g.NIP == staff.NIP {
			return repository.ErrDuplicate
		}
	}
	if staff.MajorID != nil {
		if _, ok := r.db.majors[*staff.MajorID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	staff.ID = r.db.nextID()
	staff.CreatedAt = r.db.Now()
	staff.UpdatedAt = staff.CreatedAt
	cp := *staff
	r.db.staff[staff.ID] = &cp
	return nil
}

func (r *staffRepository) Update(_ context.Context, staff *model.Staff) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var existing *model.Staff
	for _, g := range r.db.staff {
		if g.NIP == staff.NIP {
			existing = g
			break
		}
	}
	if existing == nil {
		return repository.ErrNotFound
	}
	if staff.MajorID != nil {
		if _, ok := r.db.majors[*staff.MajorID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	existing.FullName = staff.FullName
	existing.PasswordHash = staff.PasswordHash
	existing.Role = staff.Role
	existing.IsHomeroom = staff.IsHomeroom
	existing.MajorID = staff.MajorID
	existing.UpdatedAt = r.db.Now()
	*staff = *existing
	return nil
}

// ─── Admins ─────────────────────────────────────────────────────────────────

type adminRepository struct{ db *Store }

func (r *adminRepository) GetByID(_ context.Context, id int) (*model.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if a, ok := r.db.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *adminRepository) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, a := range r.db.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *adminRepository) Create(_ context.Context, a *model.Admin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.admins {
		if existing.Username == a.Username {
			return repository.ErrDuplicate
		}
	}
	a.ID = r.db.nextID()
	a.CreatedAt = r.db.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.db.admins[a.ID] = &cp
	return nil
}
