package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo repository.StudentRepository
	classRepo   repository.ClassRepository
	stats       StatsInvalidator
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService. stats is optional.
func NewStudentService(studentRepo repository.StudentRepository, classRepo repository.ClassRepository, stats StatsInvalidator, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		classRepo:   classRepo,
		stats:       stats,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// List returns every student ordered by class name then full name.
func (s *StudentService) List(ctx context.Context) ([]*model.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("list students", err)
	}
	return students, nil
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("get student", err)
	}
	return student, nil
}

// Create enrolls a new student.
func (s *StudentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	student := &model.Student{}
	if err := s.apply(ctx, student, req); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fromRepo("create student", err)
	}
	invalidateStats(ctx, s.stats)
	return student, nil
}

// Update modifies a student's details.
func (s *StudentService) Update(ctx context.Context, id int, req model.StudentRequest) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("update student", err)
	}
	if err := s.apply(ctx, student, req); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fromRepo("update student", err)
	}
	invalidateStats(ctx, s.stats)
	return student, nil
}

// Delete removes a student that has no attendance history.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return fromRepo("delete student", err)
	}

	n, err := s.studentRepo.CountDependents(ctx, id)
	if err != nil {
		return fromRepo("delete student", err)
	}
	if n > 0 {
		return fmt.Errorf("delete student %d: %w", id, ErrDependencyExists)
	}
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return fromRepo("delete student", err)
	}
	invalidateStats(ctx, s.stats)
	return nil
}

// Redistribute spreads every student across all classes round-robin. Students
// are taken in enrollment order (ascending id) and classes in name order, so a
// rerun on unchanged data yields the same assignments. It returns the applied
// assignments.
func (s *StudentService) Redistribute(ctx context.Context) ([]model.ClassAssignment, error) {
	students, err := s.studentRepo.ListInEnrollmentOrder(ctx)
	if err != nil {
		return nil, fromRepo("redistribute students", err)
	}
	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("redistribute students", err)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("redistribute students: no classes: %w", ErrInvalidInput)
	}

	assignments := DistributeRoundRobin(students, classes)
	if err := s.studentRepo.AssignClasses(ctx, assignments); err != nil {
		return nil, fromRepo("redistribute students", err)
	}
	invalidateStats(ctx, s.stats)

	s.log.Info().
		Int("students", len(students)).
		Int("classes", len(classes)).
		Msg("Students redistributed")
	return assignments, nil
}

func (s *StudentService) apply(ctx context.Context, student *model.Student, req model.StudentRequest) error {
	nis := strings.TrimSpace(req.NIS)
	name := strings.TrimSpace(req.FullName)
	switch {
	case nis == "":
		return invalidField("nis", "is required")
	case name == "":
		return invalidField("nama_lengkap", "is required")
	case req.Gender != model.GenderMale && req.Gender != model.GenderFemale:
		return invalidField("jenis_kelamin", "must be L or P")
	}

	existing, err := s.studentRepo.GetByNIS(ctx, nis)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return fromRepo("check student nis", err)
	case existing.ID != student.ID:
		return fmt.Errorf("student nis %q: %w", nis, ErrConflict)
	}

	if _, err := s.classRepo.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidField("id_kelas", "class %d does not exist", req.ClassID)
		}
		return fromRepo("check student class", err)
	}

	student.NIS = nis
	student.FullName = name
	student.Gender = req.Gender
	student.ClassID = req.ClassID
	return nil
}
