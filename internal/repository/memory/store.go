// Package memory is an in-process implementation of every repository interface.
// It mirrors the constraints of the PostgreSQL schema (unique keys, restricted
// foreign keys, the journal session key) so services can be tested without a database.
package memory

import (
	"sync"
	"time"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// Store holds all tables behind one lock.
type Store struct {
	mu sync.RWMutex

	seq         int
	majors      map[int]*model.Major
	staff       map[int]*model.Staff
	admins      map[int]*model.Admin
	classes     map[int]*model.Class
	subjects    map[int]*model.Subject
	students    map[int]*model.Student
	schedules   map[int]*model.Schedule
	journals    map[int]*model.Journal
	attendances []model.Attendance

	// Now stamps created_at columns.
	Now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		majors:    make(map[int]*model.Major),
		staff:     make(map[int]*model.Staff),
		admins:    make(map[int]*model.Admin),
		classes:   make(map[int]*model.Class),
		subjects:  make(map[int]*model.Subject),
		students:  make(map[int]*model.Student),
		schedules: make(map[int]*model.Schedule),
		journals:  make(map[int]*model.Journal),
		Now:       time.Now,
	}
}

func (s *Store) Majors() repository.MajorRepository { return &majorRepository{s} }
func (s *Store) Staff() repository.StaffRepository { return &staffRepository{s} }
func (s *Store) Admins() repository.AdminRepository { return &adminRepository{s} }
func (s *Store) Classes() repository.ClassRepository { return &classRepository{s} }
func (s *Store) Subjects() repository.SubjectRepository { return &subjectRepository{s} }
func (s *Store) Students() repository.StudentRepository { return &studentRepository{s} }
func (s *Store) Schedules() repository.ScheduleRepository { return &scheduleRepository{s} }
func (s *Store) Journals() repository.JournalRepository { return &journalRepository{s} }
func (s *Store) Reports() repository.ReportRepository { return &reportRepository{s} }

// AttendanceCount returns the number of stored attendance rows.
func (s *Store) AttendanceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attendances)
}

// nextID must be called with the write lock held.
func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

func (s *Store) className(id int) string {
	if c, ok := s.classes[id]; ok {
		return c.Name
	}
	return ""
}

func (s *Store) staffName(id int) string {
	if g, ok := s.staff[id]; ok {
		return g.FullName
	}
	return ""
}

func (s *Store) subjectName(id int) string {
	if m, ok := s.subjects[id]; ok {
		return m.Name
	}
	return ""
}
