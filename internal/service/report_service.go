package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// StatsInvalidator drops cached headline statistics once the rows they count change.
type StatsInvalidator interface {
	InvalidateHeadlineStats(ctx context.Context)
}

// invalidateStats is a no-op when inv is nil.
func invalidateStats(ctx context.Context, inv StatsInvalidator) {
	if inv != nil {
		inv.InvalidateHeadlineStats(ctx)
	}
}

// ReportService builds the principal's read-only reports.
type ReportService struct {
	reportRepo  repository.ReportRepository
	journalRepo repository.JournalRepository
	studentRepo repository.StudentRepository
	stats       StatsCache
	statsTTL    time.Duration
	loc         *time.Location
	log         zerolog.Logger
	now         func() time.Time
}

// NewReportService creates a new ReportService. stats is optional; loc defines "today".
func NewReportService(
	reportRepo repository.ReportRepository,
	journalRepo repository.JournalRepository,
	studentRepo repository.StudentRepository,
	stats StatsCache,
	statsTTL time.Duration,
	loc *time.Location,
	log zerolog.Logger,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		reportRepo:  reportRepo,
		journalRepo: journalRepo,
		studentRepo: studentRepo,
		stats:       stats,
		statsTTL:    statsTTL,
		loc:         loc,
		log:         log.With().Str("component", "report_service").Logger(),
		now:         time.Now,
	}
}

// Today returns the current calendar day in the school's timezone.
func (s *ReportService) Today() model.Date {
	return model.DateOf(s.now().In(s.loc))
}

// SessionSummaries returns H/S/I/A counts per (date, schedule), newest first.
// IDs are 1-based positions in the returned list.
func (s *ReportService) SessionSummaries(ctx context.Context) ([]model.SessionSummary, error) {
	rows, err := s.reportRepo.SessionSummaries(ctx)
	if err != nil {
		return nil, fromRepo("session summaries", err)
	}
	for i := range rows {
		rows[i].ID = i + 1
	}
	if rows == nil {
		rows = []model.SessionSummary{}
	}
	return rows, nil
}

// JournalSummaries lists journals with class, subject, teacher and period.
func (s *ReportService) JournalSummaries(ctx context.Context) ([]model.JournalSummary, error) {
	rows, err := s.reportRepo.JournalSummaries(ctx)
	if err != nil {
		return nil, fromRepo("journal summaries", err)
	}
	if rows == nil {
		rows = []model.JournalSummary{}
	}
	return rows, nil
}

// Journals lists raw journals with teacher and class names.
func (s *ReportService) Journals(ctx context.Context) ([]*model.JournalView, error) {
	rows, err := s.journalRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("list journals", err)
	}
	if rows == nil {
		rows = []*model.JournalView{}
	}
	return rows, nil
}

// HeadlineStats returns the school totals and today's attendance percentage.
func (s *ReportService) HeadlineStats(ctx context.Context) (*model.HeadlineStats, error) {
	today := s.Today()

	if s.stats != nil {
		cached, err := s.stats.GetStats(ctx, today)
		if err != nil {
			s.log.Warn().Err(err).Msg("Statistics cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	return s.computeHeadlineStats(ctx, today)
}

// RefreshHeadlineStats recomputes today's statistics and overwrites the cached copy.
func (s *ReportService) RefreshHeadlineStats(ctx context.Context) (*model.HeadlineStats, error) {
	return s.computeHeadlineStats(ctx, s.Today())
}

// InvalidateHeadlineStats drops today's cached statistics. Cache errors are
// logged because the registry write they follow has already committed.
func (s *ReportService) InvalidateHeadlineStats(ctx context.Context) {
	if s == nil || s.stats == nil {
		return
	}
	today := s.Today()
	if err := s.stats.InvalidateStats(ctx, today); err != nil {
		s.log.Warn().Err(err).Str("day", today.String()).Msg("Statistics cache invalidation failed")
	}
}

func (s *ReportService) computeHeadlineStats(ctx context.Context, today model.Date) (*model.HeadlineStats, error) {
	counts, err := s.reportRepo.HeadlineCounts(ctx, today)
	if err != nil {
		return nil, fromRepo("headline stats", err)
	}

	stats := &model.HeadlineStats{
		TotalStudents:             counts.Students,
		TotalTeachers:             counts.Teachers,
		TotalClasses:              counts.Classes,
		AttendancePercentageToday: Percentage(counts.PresentToday, counts.RecordsToday),
	}

	if s.stats != nil && s.statsTTL > 0 {
		if err := s.stats.SetStats(ctx, today, stats, s.statsTTL); err != nil {
			s.log.Warn().Err(err).Msg("Statistics cache write failed")
		}
	}
	return stats, nil
}

// Percentage returns round(100*part/total), or 0 when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// WeeklyRecap totals each student's statuses for the Monday to Sunday week
// containing ref (today when nil). Students without records get zero counts.
func (s *ReportService) WeeklyRecap(ctx context.Context, ref *model.Date) (*model.WeeklyRecap, error) {
	day := s.Today()
	if ref != nil {
		day = *ref
	}
	start, end := day.Week()

	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fromRepo("weekly recap", err)
	}
	counts, err := s.reportRepo.StudentStatusCounts(ctx, start, end)
	if err != nil {
		return nil, fromRepo("weekly recap", err)
	}

	byStudent := make(map[int]*model.StatusCounts, len(students))
	for _, c := range counts {
		sc, ok := byStudent[c.StudentID]
		if !ok {
			sc = &model.StatusCounts{}
			byStudent[c.StudentID] = sc
		}
		sc.Add(c.Status, c.Count)
	}

	data := make([]model.StudentRecap, 0, len(students))
	for _, st := range students {
		recap := model.StudentRecap{
			StudentID:   st.ID,
			NIS:         st.NIS,
			StudentName: st.FullName,
			ClassName:   st.ClassName,
		}
		if sc, ok := byStudent[st.ID]; ok {
			recap.Recap = *sc
		}
		data = append(data, recap)
	}
	sort.SliceStable(data, func(i, j int) bool {
		if data[i].ClassName != data[j].ClassName {
			return data[i].ClassName < data[j].ClassName
		}
		return data[i].StudentName < data[j].StudentName
	})

	return &model.WeeklyRecap{
		Range: model.DateRange{Start: start, End: end},
		Data:  data,
	}, nil
}

// JournalDetail returns a journal and the attendance of the same session,
// sorted by student name.
func (s *ReportService) JournalDetail(ctx context.Context, id int) (*model.JournalDetail, error) {
	journal, err := s.journalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo("journal detail", err)
	}

	attendance, err := s.journalRepo.ListAttendance(ctx, journal.ScheduleID, journal.Date)
	if err != nil {
		return nil, fromRepo("journal detail", err)
	}
	if attendance == nil {
		attendance = []model.AttendanceDetail{}
	}

	return &model.JournalDetail{Journal: *journal, Attendance: attendance}, nil
}
