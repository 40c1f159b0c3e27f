package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/config"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

// school is a small seeded dataset: one major, one class with three students,
// teacher T1 (password pw1) owning one Monday slot, and a principal.
type school struct {
	store     *memory.Store
	auth      *AuthService
	major     *model.Major
	teacher   *model.Staff
	other     *model.Staff
	principal *model.Staff
	class     *model.Class
	subject   *model.Subject
	students  []*model.Student
	slot      *model.Schedule
}

func newSchool(t *testing.T) *school {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	s := &school{
		store: store,
		auth:  NewAuthService(testConfig(), store.Staff(), store.Admins(), nil),
	}

	s.major = &model.Major{Name: "Teknik Komputer Jaringan"}
	require.NoError(t, store.Majors().Create(ctx, s.major))

	s.teacher = s.addStaff(t, "T1", "Bu Sari", model.RoleTeacher)
	s.other = s.addStaff(t, "T2", "Pak Joko", model.RoleTeacher)
	s.principal = s.addStaff(t, "K1", "Pak Kepala", model.RolePrincipal)

	s.class = &model.Class{Name: "XI TKJ 1", MajorID: s.major.ID}
	require.NoError(t, store.Classes().Create(ctx, s.class))

	s.subject = &model.Subject{Name: "Jaringan Dasar"}
	require.NoError(t, store.Subjects().Create(ctx, s.subject))

	for i, name := range []string{"Citra", "Ana", "Budi"} {
		st := &model.Student{
			NIS:      "100" + string(rune('1'+i)),
			FullName: name,
			Gender:   model.GenderFemale,
			ClassID:  s.class.ID,
		}
		require.NoError(t, store.Students().Create(ctx, st))
		s.students = append(s.students, st)
	}

	s.slot = &model.Schedule{
		Day:       model.Monday,
		StartTime: "07:00",
		EndTime:   "08:30",
		TeacherID: s.teacher.ID,
		ClassID:   s.class.ID,
		SubjectID: s.subject.ID,
	}
	require.NoError(t, store.Schedules().Create(ctx, s.slot))
	return s
}

func (s *school) addStaff(t *testing.T, nip, name string, role model.Role) *model.Staff {
	t.Helper()
	hash, err := s.auth.HashPassword("pw1")
	require.NoError(t, err)
	staff := &model.Staff{NIP: nip, FullName: name, PasswordHash: hash, Role: role}
	require.NoError(t, s.store.Staff().Create(context.Background(), staff))
	return staff
}

func (s *school) student(name string) *model.Student {
	for _, st := range s.students {
		if st.FullName == name {
			return st
		}
	}
	return nil
}

func (s *school) teacherIdentity() model.Identity {
	return model.Identity{SubjectID: s.teacher.ID, Role: model.RoleTeacher, DisplayName: s.teacher.FullName}
}

func (s *school) journals(stats StatsCache, pub JournalPublisher) *JournalService {
	return NewJournalService(s.store.Journals(), s.store.Schedules(), s.store.Students(), stats, pub, zerolog.Nop())
}

func (s *school) reports(stats StatsCache, now time.Time) *ReportService {
	svc := NewReportService(s.store.Reports(), s.store.Journals(), s.store.Students(), stats, time.Minute, time.FixedZone("WIB", 7*3600), zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

// memoryStats is a StatsCache kept in a map.
type memoryStats struct {
	mu          sync.Mutex
	entries     map[string]model.HeadlineStats
	sets        int
	invalidated []string
}

func newMemoryStats() *memoryStats {
	return &memoryStats{entries: make(map[string]model.HeadlineStats)}
}

func (m *memoryStats) GetStats(_ context.Context, day model.Date) (*model.HeadlineStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.entries[day.String()]; ok {
		return &st, nil
	}
	return nil, nil
}

func (m *memoryStats) SetStats(_ context.Context, day model.Date, stats *model.HeadlineStats, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[day.String()] = *stats
	m.sets++
	return nil
}

func (m *memoryStats) InvalidateStats(_ context.Context, day model.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, day.String())
	m.invalidated = append(m.invalidated, day.String())
	return nil
}

type recordingPublisher struct {
	events []model.JournalEvent
}

func (p *recordingPublisher) PublishJournal(_ context.Context, event model.JournalEvent) error {
	p.events = append(p.events, event)
	return nil
}
