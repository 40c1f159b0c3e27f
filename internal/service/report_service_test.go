package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSessionSummaries(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	journals := s.journals(nil, nil)

	_, err := journals.Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{
		"Ana":  model.StatusPresent,
		"Budi": model.StatusSick,
	}))
	require.NoError(t, err)
	_, err = journals.Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-22", map[string]model.AttendanceStatus{
		"Ana":   model.StatusExcused,
		"Budi":  model.StatusAbsent,
		"Citra": model.StatusAbsent,
	}))
	require.NoError(t, err)

	rows, err := s.reports(nil, time.Now()).SessionSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	newest, older := rows[0], rows[1]
	assert.Equal(t, 1, newest.ID)
	assert.Equal(t, "2024-01-22", newest.Date.String())
	assert.Equal(t, 1, newest.Excused)
	assert.Equal(t, 2, newest.Absent)

	assert.Equal(t, 2, older.ID)
	assert.Equal(t, "2024-01-15", older.Date.String())
	assert.Equal(t, s.slot.ID, older.ScheduleID)
	assert.Equal(t, "XI TKJ 1", older.ClassName)
	assert.Equal(t, "Jaringan Dasar", older.SubjectName)
	assert.Equal(t, "Bu Sari", older.TeacherName)
	assert.Equal(t, 1, older.Present)
	assert.Equal(t, 1, older.Sick)
	assert.Zero(t, older.Excused)
	assert.Zero(t, older.Absent)
}

func TestHeadlineStats(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)

	t.Run("no records today", func(t *testing.T) {
		stats, err := s.reports(nil, now).HeadlineStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.HeadlineStats{TotalStudents: 3, TotalTeachers: 2, TotalClasses: 1}, *stats)
	})

	_, err := s.journals(nil, nil).Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{
		"Ana":   model.StatusPresent,
		"Budi":  model.StatusPresent,
		"Citra": model.StatusSick,
	}))
	require.NoError(t, err)

	t.Run("rounds percentage", func(t *testing.T) {
		stats, err := s.reports(nil, now).HeadlineStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 67, stats.AttendancePercentageToday)
	})

	t.Run("cached and idempotent", func(t *testing.T) {
		cache := newMemoryStats()
		svc := s.reports(cache, now)

		first, err := svc.HeadlineStats(ctx)
		require.NoError(t, err)
		second, err := svc.HeadlineStats(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("refresh overwrites a stale entry", func(t *testing.T) {
		cache := newMemoryStats()
		cache.entries["2024-01-15"] = model.HeadlineStats{TotalStudents: 99}
		svc := s.reports(cache, now)

		fresh, err := svc.RefreshHeadlineStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 67, fresh.AttendancePercentageToday)

		cached, err := svc.HeadlineStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, cached.TotalStudents)
	})
}

func TestTodayUsesSchoolTimezone(t *testing.T) {
	s := newSchool(t)
	svc := s.reports(nil, time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-16", svc.Today().String())
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.part, tt.total), "%d/%d", tt.part, tt.total)
	}
}

func TestWeeklyRecap(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	journals := s.journals(nil, nil)

	_, err := journals.Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{
		"Ana":  model.StatusPresent,
		"Budi": model.StatusSick,
	}))
	require.NoError(t, err)
	// Previous week, must not be counted.
	_, err = journals.Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-08", map[string]model.AttendanceStatus{
		"Ana": model.StatusAbsent,
	}))
	require.NoError(t, err)

	ref := model.NewDate(2024, 1, 17)
	recap, err := s.reports(nil, time.Now()).WeeklyRecap(ctx, &ref)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15", recap.Range.Start.String())
	assert.Equal(t, "2024-01-21", recap.Range.End.String())
	require.Len(t, recap.Data, 3)

	assert.Equal(t, "Ana", recap.Data[0].StudentName)
	assert.Equal(t, model.StatusCounts{Present: 1, Total: 1}, recap.Data[0].Recap)
	assert.Equal(t, "Budi", recap.Data[1].StudentName)
	assert.Equal(t, model.StatusCounts{Sick: 1, Total: 1}, recap.Data[1].Recap)
	assert.Equal(t, "Citra", recap.Data[2].StudentName)
	assert.Equal(t, model.StatusCounts{}, recap.Data[2].Recap)
}

func TestWeeklyRecapWithoutRecords(t *testing.T) {
	s := newSchool(t)
	svc := s.reports(nil, time.Date(2024, 1, 21, 10, 0, 0, 0, time.UTC))

	recap, err := svc.WeeklyRecap(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", recap.Range.Start.String())
	require.Len(t, recap.Data, 3)
	for _, row := range recap.Data {
		assert.Zero(t, row.Recap.Total)
	}
}

func TestJournalDetailNotFound(t *testing.T) {
	s := newSchool(t)
	_, err := s.reports(nil, time.Now()).JournalDetail(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportWeeklyRecap(t *testing.T) {
	s := newSchool(t)
	ctx := context.Background()
	_, err := s.journals(nil, nil).Submit(ctx, s.teacherIdentity(), submitRequest(s, "2024-01-15", map[string]model.AttendanceStatus{
		"Ana": model.StatusPresent,
	}))
	require.NoError(t, err)

	ref := model.NewDate(2024, 1, 15)
	var buf bytes.Buffer
	rng, err := s.reports(nil, time.Now()).ExportWeeklyRecap(ctx, &ref, &buf)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-21", rng.End.String())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(recapSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Rekap Absensi 2024-01-15 s/d 2024-01-21", title)

	rows, err := f.GetRows(recapSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, recapHeader, rows[2])
	assert.Equal(t, []string{"1", "1002", "Ana", "XI TKJ 1", "1", "0", "0", "0", "1"}, rows[3])
}
