package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// ClassService handles class business logic.
type ClassService struct {
	classRepo   repository.ClassRepository
	majorRepo   repository.MajorRepository
	staffRepo   repository.StaffRepository
	studentRepo repository.StudentRepository
	stats       StatsInvalidator
}

// NewClassService creates a new ClassService. stats is optional.
func NewClassService(
	classRepo repository.ClassRepository,
	majorRepo repository.MajorRepository,
	staffRepo repository.StaffRepository,
	studentRepo repository.StudentRepository,
	stats StatsInvalidator,
) *ClassService {
	return &ClassService{
		classRepo:   classRepo,
		majorRepo:   majorRepo,
		staffRepo:   staffRepo,
		studentRepo: studentRepo,
		stats:       stats,
	}
}

// GetByID retrieves a class by its ID.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("get class", err)
	}
	return class, nil
}

// List retrieves all classes.
func (s *ClassService) List(ctx context.Context) ([]*model.Class, error) {
	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("list classes", err)
	}
	return classes, nil
}

// ListStudents returns the students of a class ordered by full name.
func (s *ClassService) ListStudents(ctx context.Context, classID int) ([]*model.Student, error) {
	students, err := s.studentRepo.ListByClass(ctx, classID)
	if err != nil {
		return nil, fromRepo("list class students", err)
	}
	return students, nil
}

// Create creates a new class.
func (s *ClassService) Create(ctx context.Context, req model.ClassRequest) (*model.Class, error) {
	class := &model.Class{}
	if err := s.apply(ctx, class, req); err != nil {
		return nil, err
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, fromRepo("create class", err)
	}
	invalidateStats(ctx, s.stats)
	return class, nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id int, req model.ClassRequest) (*model.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("update class", err)
	}
	if err := s.apply(ctx, class, req); err != nil {
		return nil, err
	}
	if err := s.classRepo.Update(ctx, class); err != nil {
		return nil, fromRepo("update class", err)
	}
	return class, nil
}

// Delete removes a class without students or schedules.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	if _, err := s.classRepo.GetByID(ctx, id); err != nil {
		return fromRepo("delete class", err)
	}

	n, err := s.classRepo.CountDependents(ctx, id)
	if err != nil {
		return fromRepo("delete class", err)
	}
	if n > 0 {
		return fmt.Errorf("delete class %d: %w", id, ErrDependencyExists)
	}
	if err := s.classRepo.Delete(ctx, id); err != nil {
		return fromRepo("delete class", err)
	}
	invalidateStats(ctx, s.stats)
	return nil
}

// apply validates req against existing rows and copies it onto class.
func (s *ClassService) apply(ctx context.Context, class *model.Class, req model.ClassRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return invalidField("nama_kelas", "is required")
	}

	existing, err := s.classRepo.GetByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return fromRepo("check class name", err)
	case existing.ID != class.ID:
		return fmt.Errorf("class %q: %w", name, ErrConflict)
	}

	if _, err := s.majorRepo.GetByID(ctx, req.MajorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidField("id_jurusan", "major %d does not exist", req.MajorID)
		}
		return fromRepo("check class major", err)
	}

	if req.HomeroomTeacherID != nil {
		if _, err := s.staffRepo.GetByID(ctx, *req.HomeroomTeacherID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalidField("id_wali_kelas", "teacher %d does not exist", *req.HomeroomTeacherID)
			}
			return fromRepo("check homeroom teacher", err)
		}
	}

	class.Name = name
	class.MajorID = req.MajorID
	class.HomeroomTeacherID = req.HomeroomTeacherID
	return nil
}
