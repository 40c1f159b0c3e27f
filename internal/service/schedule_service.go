package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// ScheduleService manages weekly teaching slots and the teacher views built on them.
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepository
	staffRepo    repository.StaffRepository
	classRepo    repository.ClassRepository
	subjectRepo  repository.SubjectRepository
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	scheduleRepo repository.ScheduleRepository,
	staffRepo repository.StaffRepository,
	classRepo repository.ClassRepository,
	subjectRepo repository.SubjectRepository,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		staffRepo:    staffRepo,
		classRepo:    classRepo,
		subjectRepo:  subjectRepo,
	}
}

// List returns every slot ordered by weekday and start time.
func (s *ScheduleService) List(ctx context.Context) ([]*model.Schedule, error) {
	slots, err := s.scheduleRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("list schedules", err)
	}
	return slots, nil
}

// ListByTeacher returns the slots of one teacher. Unknown teachers are NotFound.
func (s *ScheduleService) ListByTeacher(ctx context.Context, teacherID int) ([]*model.Schedule, error) {
	if _, err := s.staffRepo.GetByID(ctx, teacherID); err != nil {
		return nil, fromRepo("list teacher schedules", err)
	}
	slots, err := s.scheduleRepo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fromRepo("list teacher schedules", err)
	}
	return slots, nil
}

// ListMine returns the caller's own slots.
func (s *ScheduleService) ListMine(ctx context.Context, identity model.Identity) ([]*model.Schedule, error) {
	slots, err := s.scheduleRepo.ListByTeacher(ctx, identity.SubjectID)
	if err != nil {
		return nil, fromRepo("list my schedule", err)
	}
	if slots == nil {
		slots = []*model.Schedule{}
	}
	return slots, nil
}

// ClassesForTeacher lists the (class, subject) pairs the teacher with nip covers.
func (s *ScheduleService) ClassesForTeacher(ctx context.Context, nip string) (*model.TeacherClasses, error) {
	nip = strings.TrimSpace(nip)
	if nip == "" {
		return nil, invalidField("nip", "is required")
	}

	teacher, err := s.staffRepo.GetByNIP(ctx, nip)
	if err != nil {
		return nil, fromRepo("list teacher classes", err)
	}

	assignments, err := s.scheduleRepo.ListAssignments(ctx, teacher.ID)
	if err != nil {
		return nil, fromRepo("list teacher classes", err)
	}
	if assignments == nil {
		assignments = []model.TeachingAssignment{}
	}

	return &model.TeacherClasses{
		Teacher: model.TeacherRef{ID: teacher.ID, Name: teacher.FullName, NIP: teacher.NIP},
		Classes: assignments,
	}, nil
}

// Create adds a slot after checking references and clashes with the same
// teacher or class on the same day.
func (s *ScheduleService) Create(ctx context.Context, req model.ScheduleRequest) (*model.Schedule, error) {
	if req.Day.Order() == 0 {
		return nil, invalidField("hari", "unknown day %q", req.Day)
	}
	if req.EndTime <= req.StartTime {
		return nil, invalidField("jam_selesai", "must be after jam_mulai")
	}

	teacher, err := s.staffRepo.GetByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("id_guru", "teacher %d does not exist", req.TeacherID)
		}
		return nil, fromRepo("check schedule teacher", err)
	}
	if teacher.Role != model.RoleTeacher {
		return nil, invalidField("id_guru", "staff %d is not a teacher", req.TeacherID)
	}
	if _, err := s.classRepo.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("id_kelas", "class %d does not exist", req.ClassID)
		}
		return nil, fromRepo("check schedule class", err)
	}
	if _, err := s.subjectRepo.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidField("id_mapel", "subject %d does not exist", req.SubjectID)
		}
		return nil, fromRepo("check schedule subject", err)
	}

	slot := &model.Schedule{
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		TeacherID: req.TeacherID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
	}

	sameDay, err := s.scheduleRepo.ListOnDay(ctx, req.Day, req.TeacherID, req.ClassID)
	if err != nil {
		return nil, fromRepo("check schedule overlap", err)
	}
	for _, other := range sameDay {
		if slot.Overlaps(other) {
			return nil, fmt.Errorf("slot %s %s clashes with schedule %d: %w", slot.Day, slot.Period(), other.ID, ErrScheduleOverlap)
		}
	}

	if err := s.scheduleRepo.Create(ctx, slot); err != nil {
		return nil, fromRepo("create schedule", err)
	}
	return slot, nil
}

// Delete removes a slot that has no journals or attendance.
func (s *ScheduleService) Delete(ctx context.Context, id int) error {
	if _, err := s.scheduleRepo.GetByID(ctx, id); err != nil {
		return fromRepo("delete schedule", err)
	}

	n, err := s.scheduleRepo.CountDependents(ctx, id)
	if err != nil {
		return fromRepo("delete schedule", err)
	}
	if n > 0 {
		return fmt.Errorf("delete schedule %d: %w", id, ErrDependencyExists)
	}
	return fromRepo("delete schedule", s.scheduleRepo.Delete(ctx, id))
}
