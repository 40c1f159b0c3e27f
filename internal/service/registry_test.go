package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorService(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewMajorService(s.store.Majors())

	created, err := svc.Create(ctx, " Akuntansi ")
	require.NoError(t, err)
	assert.Equal(t, "Akuntansi", created.Name)

	_, err = svc.Create(ctx, "Akuntansi")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.Update(ctx, created.ID, "Akuntansi Lembaga")
	require.NoError(t, err)
	assert.Equal(t, "Akuntansi Lembaga", updated.Name)

	_, err = svc.Update(ctx, created.ID, s.major.Name)
	assert.ErrorIs(t, err, ErrConflict)

	t.Run("delete with classes is refused", func(t *testing.T) {
		err := svc.Delete(ctx, s.major.ID)
		assert.ErrorIs(t, err, ErrDependencyExists)

		_, err = svc.Get(ctx, s.major.ID)
		assert.NoError(t, err)
	})

	t.Run("delete missing", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, 9999), ErrNotFound)
	})

	t.Run("delete unused", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, created.ID))
		_, err := svc.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSubjectDeleteWithSchedules(t *testing.T) {
	s := newSchool(t)
	svc := NewSubjectService(s.store.Subjects(), zerolog.Nop())

	err := svc.Delete(context.Background(), s.subject.ID)
	assert.ErrorIs(t, err, ErrDependencyExists)
}

func TestClassService(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewClassService(s.store.Classes(), s.store.Majors(), s.store.Staff(), s.store.Students(), nil)

	_, err := svc.Create(ctx, model.ClassRequest{Name: "XI TKJ 1", MajorID: s.major.ID})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Create(ctx, model.ClassRequest{Name: "X TKJ 1", MajorID: 9999})
	assert.ErrorIs(t, err, ErrInvalidInput)

	homeroom := s.teacher.ID
	class, err := svc.Create(ctx, model.ClassRequest{Name: "X TKJ 1", MajorID: s.major.ID, HomeroomTeacherID: &homeroom})
	require.NoError(t, err)
	assert.Equal(t, &homeroom, class.HomeroomTeacherID)

	students, err := svc.ListStudents(ctx, s.class.ID)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "Ana", students[0].FullName)
	assert.Equal(t, "Citra", students[2].FullName)

	assert.ErrorIs(t, svc.Delete(ctx, s.class.ID), ErrDependencyExists)
	assert.NoError(t, svc.Delete(ctx, class.ID))
}

func TestStudentService(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewStudentService(s.store.Students(), s.store.Classes(), nil, zerolog.Nop())

	_, err := svc.Create(ctx, model.StudentRequest{NIS: "1001", FullName: "Eka", Gender: model.GenderMale, ClassID: s.class.ID})
	assert.ErrorIs(t, err, ErrConflict)

	eka, err := svc.Create(ctx, model.StudentRequest{NIS: "2001", FullName: "Eka", Gender: model.GenderMale, ClassID: s.class.ID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, eka.ID, model.StudentRequest{NIS: "2001", FullName: "Eka Putra", Gender: model.GenderMale, ClassID: 9999})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.journals(nil, nil).Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{
		"Ana": model.StatusPresent,
	}))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, s.student("Ana").ID), ErrDependencyExists)
	assert.NoError(t, svc.Delete(ctx, eka.ID))
	assert.ErrorIs(t, svc.Delete(ctx, eka.ID), ErrNotFound)
}

func TestStaffRegister(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewStaffService(s.store.Staff(), s.store.Admins(), s.store.Majors(), s.auth, nil, zerolog.Nop())

	staff, created, err := svc.Register(ctx, model.RegisterStaffRequest{
		NIP: "T3", FullName: "Bu Rina", Password: "rahasia", Role: model.RoleTeacher, MajorID: &s.major.ID,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "rahasia", staff.PasswordHash)

	_, err = s.auth.LoginStaff(ctx, "T3", "rahasia")
	assert.NoError(t, err)

	_, _, err = svc.Register(ctx, model.RegisterStaffRequest{NIP: "A1", FullName: "Admin", Password: "x", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStaffReRegisterResetsPassword(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewStaffService(s.store.Staff(), s.store.Admins(), s.store.Majors(), s.auth, nil, zerolog.Nop())

	staff, created, err := svc.Register(ctx, model.RegisterStaffRequest{
		NIP: "T1", FullName: "Bu Sari Dewi", Password: "newpw", Role: model.RoleTeacher, IsHomeroom: true,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s.teacher.ID, staff.ID)
	assert.Equal(t, "Bu Sari Dewi", staff.FullName)
	assert.True(t, staff.IsHomeroom)

	resp, err := s.auth.LoginStaff(ctx, "T1", "newpw")
	require.NoError(t, err)
	assert.Equal(t, s.teacher.ID, resp.User.ID)

	_, err = s.auth.LoginStaff(ctx, "T1", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRegistryWritesInvalidateHeadlineStats(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	cache := newMemoryStats()
	reports := s.reports(cache, time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC))

	students := NewStudentService(s.store.Students(), s.store.Classes(), reports, zerolog.Nop())
	classes := NewClassService(s.store.Classes(), s.store.Majors(), s.store.Staff(), s.store.Students(), reports)
	staff := NewStaffService(s.store.Staff(), s.store.Admins(), s.store.Majors(), s.auth, reports, zerolog.Nop())

	headline := func() model.HeadlineStats {
		t.Helper()
		stats, err := reports.HeadlineStats(ctx)
		require.NoError(t, err)
		return *stats
	}

	assert.Equal(t, 3, headline().TotalStudents)

	eka, err := students.Create(ctx, model.StudentRequest{NIS: "9999", FullName: "Eka", Gender: model.GenderMale, ClassID: s.class.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, headline().TotalStudents)

	require.NoError(t, students.Delete(ctx, eka.ID))
	assert.Equal(t, 3, headline().TotalStudents)

	class, err := classes.Create(ctx, model.ClassRequest{Name: "X TKJ 1", MajorID: s.major.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, headline().TotalClasses)

	require.NoError(t, classes.Delete(ctx, class.ID))
	assert.Equal(t, 1, headline().TotalClasses)

	_, _, err = staff.Register(ctx, model.RegisterStaffRequest{NIP: "T3", FullName: "Bu Rina", Password: "pw", Role: model.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, 3, headline().TotalTeachers)

	_, _, err = staff.Register(ctx, model.RegisterStaffRequest{NIP: "T3", FullName: "Bu Rina", Password: "pw", Role: model.RolePrincipal})
	require.NoError(t, err)
	assert.Equal(t, 2, headline().TotalTeachers)

	assert.Len(t, cache.invalidated, 6)
	for _, day := range cache.invalidated {
		assert.Equal(t, "2024-01-15", day)
	}
}

func TestScheduleCreate(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewScheduleService(s.store.Schedules(), s.store.Staff(), s.store.Classes(), s.store.Subjects())

	otherClass := &model.Class{Name: "XII TKJ 2", MajorID: s.major.ID}
	require.NoError(t, s.store.Classes().Create(ctx, otherClass))

	req := func(teacher, class int, start, end string) model.ScheduleRequest {
		return model.ScheduleRequest{
			Day: model.Monday, StartTime: start, EndTime: end,
			TeacherID: teacher, ClassID: class, SubjectID: s.subject.ID,
		}
	}

	tests := []struct {
		name string
		req  model.ScheduleRequest
		want error
	}{
		{"same teacher overlapping", req(s.teacher.ID, otherClass.ID, "08:00", "09:00"), ErrScheduleOverlap},
		{"same class overlapping", req(s.other.ID, s.class.ID, "06:30", "07:01"), ErrScheduleOverlap},
		{"end before start", req(s.other.ID, otherClass.ID, "10:00", "09:00"), ErrInvalidInput},
		{"principal as teacher", req(s.principal.ID, otherClass.ID, "10:00", "11:00"), ErrInvalidInput},
		{"unknown subject", model.ScheduleRequest{Day: model.Monday, StartTime: "10:00", EndTime: "11:00", TeacherID: s.other.ID, ClassID: otherClass.ID, SubjectID: 9999}, ErrInvalidInput},
		{"adjacent slot", req(s.teacher.ID, s.class.ID, "08:30", "10:00"), nil},
		{"other class and teacher", req(s.other.ID, otherClass.ID, "07:00", "08:30"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	mine, err := svc.ListMine(ctx, s.teacherIdentity())
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "07:00", mine[0].StartTime)
	assert.Equal(t, "08:30", mine[1].StartTime)
}

func TestClassesForTeacher(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewScheduleService(s.store.Schedules(), s.store.Staff(), s.store.Classes(), s.store.Subjects())

	got, err := svc.ClassesForTeacher(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, model.TeacherRef{ID: s.teacher.ID, Name: "Bu Sari", NIP: "T1"}, got.Teacher)
	assert.Equal(t, []model.TeachingAssignment{{
		ClassID: s.class.ID, ClassName: "XI TKJ 1", SubjectName: "Jaringan Dasar", ScheduleID: s.slot.ID,
	}}, got.Classes)

	empty, err := svc.ClassesForTeacher(ctx, "T2")
	require.NoError(t, err)
	assert.Empty(t, empty.Classes)
	assert.NotNil(t, empty.Classes)

	_, err = svc.ClassesForTeacher(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListByTeacher(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleDeleteWithJournal(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	svc := NewScheduleService(s.store.Schedules(), s.store.Staff(), s.store.Classes(), s.store.Subjects())

	_, err := s.journals(nil, nil).Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{
		"Ana": model.StatusPresent,
	}))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, s.slot.ID), ErrDependencyExists)
	assert.ErrorIs(t, svc.Delete(ctx, 9999), ErrNotFound)
}

func TestDistributeRoundRobin(t *testing.T) {
	students := []*model.Student{{ID: 10}, {ID: 11}, {ID: 12}, {ID: 13}, {ID: 14}}
	classes := []*model.Class{{ID: 1}, {ID: 2}}

	got := DistributeRoundRobin(students, classes)
	assert.Equal(t, []model.ClassAssignment{
		{StudentID: 10, ClassID: 1},
		{StudentID: 11, ClassID: 2},
		{StudentID: 12, ClassID: 1},
		{StudentID: 13, ClassID: 2},
		{StudentID: 14, ClassID: 1},
	}, got)

	assert.Nil(t, DistributeRoundRobin(students, nil))
}

func TestRedistribute(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	second := &model.Class{Name: "XI TKJ 2", MajorID: s.major.ID}
	require.NoError(t, s.store.Classes().Create(ctx, second))

	svc := NewStudentService(s.store.Students(), s.store.Classes(), nil, zerolog.Nop())
	assignments, err := svc.Redistribute(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 3)

	// Classes are taken in name order, students in enrollment order.
	citra, err := s.store.Students().GetByID(ctx, s.student("Citra").ID)
	require.NoError(t, err)
	ana, err := s.store.Students().GetByID(ctx, s.student("Ana").ID)
	require.NoError(t, err)
	assert.Equal(t, s.class.ID, citra.ClassID)
	assert.Equal(t, second.ID, ana.ClassID)
}
