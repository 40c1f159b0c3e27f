package service

import (
	"context"
	"testing"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitRequest(s *school, date string, statuses map[string]model.AttendanceStatus) model.SubmitJournalRequest {
	req := model.SubmitJournalRequest{
		ScheduleID: s.slot.ID,
		Date:       date,
		Topic:      "Topologi jaringan",
	}
	for _, st := range s.students {
		if status, ok := statuses[st.FullName]; ok {
			req.Attendance = append(req.Attendance, model.AttendanceEntry{StudentID: st.ID, Status: status})
		}
	}
	return req
}

func TestSubmitJournalRoundTrip(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	stats := newMemoryStats()
	pub := &recordingPublisher{}

	req := submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{
		"Citra": model.StatusAbsent,
		"Ana":   model.StatusPresent,
		"Budi":  model.StatusSick,
	})
	notes := "  Praktik crimping  "
	req.ActivityNotes = &notes

	journal, err := s.journals(stats, pub).Submit(ctx, s.teacherIdentity(), req)
	require.NoError(t, err)
	assert.NotZero(t, journal.ID)
	assert.Equal(t, "2024-01-15", journal.Date.String())
	require.NotNil(t, journal.ActivityNotes)
	assert.Equal(t, "Praktik crimping", *journal.ActivityNotes)
	assert.Equal(t, 3, s.store.AttendanceCount())

	detail, err := s.reports(nil, journal.CreatedAt).JournalDetail(ctx, journal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Topologi jaringan", detail.Journal.Topic)
	assert.Equal(t, "Bu Sari", detail.Journal.TeacherName)
	require.Len(t, detail.Attendance, 3)
	assert.Equal(t, "Ana", detail.Attendance[0].StudentName)
	assert.Equal(t, model.StatusPresent, detail.Attendance[0].Status)
	assert.Equal(t, "Budi", detail.Attendance[1].StudentName)
	assert.Equal(t, model.StatusSick, detail.Attendance[1].Status)
	assert.Equal(t, "Citra", detail.Attendance[2].StudentName)
	assert.Equal(t, model.StatusAbsent, detail.Attendance[2].Status)

	assert.Equal(t, []string{"2024-01-15"}, stats.invalidated)
	require.Len(t, pub.events, 1)
	assert.Equal(t, journal.ID, pub.events[0].JournalID)
	assert.Equal(t, model.StatusCounts{Present: 1, Sick: 1, Absent: 1, Total: 3}, pub.events[0].Counts)
}

func TestSubmitJournalRejectsWithoutWriting(t *testing.T) {
	s := newSchool(t)
	ana, budi := s.student("Ana"), s.student("Budi")

	outsider := &model.Student{NIS: "9999", FullName: "Dewi", Gender: model.GenderFemale, ClassID: s.class.ID}
	otherClass := &model.Class{Name: "XII TKJ 1", MajorID: s.major.ID}
	require.NoError(t, s.store.Classes().Create(context.Background(), otherClass))
	outsider.ClassID = otherClass.ID
	require.NoError(t, s.store.Students().Create(context.Background(), outsider))

	base := func() model.SubmitJournalRequest {
		return model.SubmitJournalRequest{ScheduleID: s.slot.ID, Date: "2024-01-15", Topic: "Subnetting"}
	}

	tests := []struct {
		name   string
		mutate func(r *model.SubmitJournalRequest)
		want   error
	}{
		{"invalid status", func(r *model.SubmitJournalRequest) {
			r.Attendance = []model.AttendanceEntry{{StudentID: ana.ID, Status: "H"}, {StudentID: budi.ID, Status: "X"}}
		}, ErrInvalidInput},
		{"duplicate student", func(r *model.SubmitJournalRequest) {
			r.Attendance = []model.AttendanceEntry{{StudentID: ana.ID, Status: "H"}, {StudentID: ana.ID, Status: "S"}}
		}, ErrInvalidInput},
		{"student from another class", func(r *model.SubmitJournalRequest) {
			r.Attendance = []model.AttendanceEntry{{StudentID: ana.ID, Status: "H"}, {StudentID: outsider.ID, Status: "H"}}
		}, ErrInvalidInput},
		{"empty attendance", func(r *model.SubmitJournalRequest) {
			r.Attendance = nil
		}, ErrInvalidInput},
		{"blank topic", func(r *model.SubmitJournalRequest) {
			r.Topic = "  "
			r.Attendance = []model.AttendanceEntry{{StudentID: ana.ID, Status: "H"}}
		}, ErrInvalidInput},
		{"bad date", func(r *model.SubmitJournalRequest) {
			r.Date = "15/01/2024"
			r.Attendance = []model.AttendanceEntry{{StudentID: ana.ID, Status: "H"}}
		}, ErrInvalidInput},
		{"unknown schedule", func(r *model.SubmitJournalRequest) {
			r.ScheduleID = 424242
			r.Attendance = []model.AttendanceEntry{{StudentID: ana.ID, Status: "H"}}
		}, ErrNotFound},
	}

	svc := s.journals(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)

			_, err := svc.Submit(context.Background(), s.teacherIdentity(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, s.store.AttendanceCount())

			exists, err := s.store.Journals().ExistsForSession(context.Background(), s.slot.ID, model.NewDate(2024, 1, 15))
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestSubmitJournalFieldError(t *testing.T) {
	s := newSchool(t)
	req := submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{"Ana": "Q"})

	_, err := s.journals(nil, nil).Submit(context.Background(), s.teacherIdentity(), req)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "absensiSiswa[0].status", fe.Field)
}

func TestSubmitJournalOnlyOwner(t *testing.T) {
	s := newSchool(t)
	req := submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{"Ana": model.StatusPresent})
	intruder := model.Identity{SubjectID: s.other.ID, Role: model.RoleTeacher}

	_, err := s.journals(nil, nil).Submit(context.Background(), intruder, req)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Zero(t, s.store.AttendanceCount())
}

func TestSubmitJournalTwiceConflicts(t *testing.T) {
	s := newSchool(t)
	svc := s.journals(nil, nil)
	req := submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{"Ana": model.StatusPresent})

	_, err := svc.Submit(context.Background(), s.teacherIdentity(), req)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), s.teacherIdentity(), req)
	assert.ErrorIs(t, err, ErrJournalExists)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, s.store.AttendanceCount())

	req.Date = "2024-01-22"
	_, err = svc.Submit(context.Background(), s.teacherIdentity(), req)
	assert.NoError(t, err)
}
