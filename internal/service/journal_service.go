package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/repository"
)

// StatsCache caches the principal's headline statistics per day.
type StatsCache interface {
	GetStats(ctx context.Context, day model.Date) (*model.HeadlineStats, error)
	SetStats(ctx context.Context, day model.Date, stats *model.HeadlineStats, ttl time.Duration) error
	InvalidateStats(ctx context.Context, day model.Date) error
}

// JournalPublisher announces committed journals to live subscribers.
type JournalPublisher interface {
	PublishJournal(ctx context.Context, event model.JournalEvent) error
}

// JournalService records a session's journal together with its attendance.
type JournalService struct {
	journalRepo  repository.JournalRepository
	scheduleRepo repository.ScheduleRepository
	studentRepo  repository.StudentRepository
	stats        StatsCache
	publisher    JournalPublisher
	log          zerolog.Logger
	now          func() time.Time
}

// NewJournalService creates a new JournalService. stats and publisher are optional.
func NewJournalService(
	journalRepo repository.JournalRepository,
	scheduleRepo repository.ScheduleRepository,
	studentRepo repository.StudentRepository,
	stats StatsCache,
	publisher JournalPublisher,
	log zerolog.Logger,
) *JournalService {
	return &JournalService{
		journalRepo:  journalRepo,
		scheduleRepo: scheduleRepo,
		studentRepo:  studentRepo,
		stats:        stats,
		publisher:    publisher,
		log:          log.With().Str("component", "journal_service").Logger(),
		now:          time.Now,
	}
}

// Submit validates the whole request, then stores the journal and every
// attendance row in one transaction. Nothing is written when any check fails.
func (s *JournalService) Submit(ctx context.Context, identity model.Identity, req model.SubmitJournalRequest) (*model.Journal, error) {
	if req.ScheduleID <= 0 {
		return nil, invalidField("id_jadwal", "is required")
	}
	date, err := model.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, invalidField("tanggal", "must be a date in YYYY-MM-DD format")
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, invalidField("materi", "is required")
	}
	if len(req.Attendance) == 0 {
		return nil, invalidField("absensiSiswa", "must contain at least one student")
	}

	seen := make(map[int]bool, len(req.Attendance))
	for i, entry := range req.Attendance {
		field := fmt.Sprintf("absensiSiswa[%d]", i)
		switch {
		case entry.StudentID <= 0:
			return nil, invalidField(field+".id_siswa", "is required")
		case !entry.Status.Valid():
			return nil, invalidField(field+".status", "must be one of H, S, I, A")
		case seen[entry.StudentID]:
			return nil, invalidField(field+".id_siswa", "student %d appears more than once", entry.StudentID)
		}
		seen[entry.StudentID] = true
	}

	slot, err := s.scheduleRepo.GetByID(ctx, req.ScheduleID)
	if err != nil {
		return nil, fromRepo("submit journal", err)
	}
	if slot.TeacherID != identity.SubjectID {
		return nil, fmt.Errorf("schedule %d belongs to another teacher: %w", slot.ID, ErrForbidden)
	}

	roster, err := s.studentRepo.ListByClass(ctx, slot.ClassID)
	if err != nil {
		return nil, fromRepo("submit journal", err)
	}
	enrolled := make(map[int]bool, len(roster))
	for _, st := range roster {
		enrolled[st.ID] = true
	}
	for i, entry := range req.Attendance {
		if !enrolled[entry.StudentID] {
			return nil, invalidField(fmt.Sprintf("absensiSiswa[%d].id_siswa", i), "student %d is not in this class", entry.StudentID)
		}
	}

	exists, err := s.journalRepo.ExistsForSession(ctx, slot.ID, date)
	if err != nil {
		return nil, fromRepo("submit journal", err)
	}
	if exists {
		return nil, fmt.Errorf("schedule %d on %s: %w", slot.ID, date, ErrJournalExists)
	}

	journal := &model.Journal{
		ScheduleID: slot.ID,
		Date:       date,
		Topic:      topic,
	}
	if req.ActivityNotes != nil {
		if notes := strings.TrimSpace(*req.ActivityNotes); notes != "" {
			journal.ActivityNotes = &notes
		}
	}

	rows := make([]model.Attendance, len(req.Attendance))
	var counts model.StatusCounts
	for i, entry := range req.Attendance {
		rows[i] = model.Attendance{
			StudentID:  entry.StudentID,
			ScheduleID: slot.ID,
			Date:       date,
			Status:     entry.Status,
		}
		counts.Add(entry.Status, 1)
	}

	if err := s.journalRepo.CreateWithAttendance(ctx, journal, rows); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("schedule %d on %s: %w", slot.ID, date, ErrJournalExists)
		}
		return nil, fromRepo("submit journal", err)
	}

	s.log.Info().
		Int("journal_id", journal.ID).
		Int("schedule_id", slot.ID).
		Str("date", date.String()).
		Int("students", len(rows)).
		Msg("Journal submitted")

	s.afterCommit(ctx, identity, journal, counts)
	return journal, nil
}

// afterCommit runs side effects that must not undo a committed submission.
func (s *JournalService) afterCommit(ctx context.Context, identity model.Identity, journal *model.Journal, counts model.StatusCounts) {
	if s.stats != nil {
		if err := s.stats.InvalidateStats(ctx, journal.Date); err != nil {
			s.log.Warn().Err(err).Str("date", journal.Date.String()).Msg("Failed to invalidate statistics cache")
		}
	}

	if s.publisher != nil {
		event := model.JournalEvent{
			JournalID:   journal.ID,
			ScheduleID:  journal.ScheduleID,
			Date:        journal.Date,
			Topic:       journal.Topic,
			TeacherID:   identity.SubjectID,
			TeacherName: identity.DisplayName,
			Counts:      counts,
			SubmittedAt: s.now(),
		}
		if err := s.publisher.PublishJournal(ctx, event); err != nil {
			s.log.Warn().Err(err).Int("journal_id", journal.ID).Msg("Failed to publish journal event")
		}
	}
}
