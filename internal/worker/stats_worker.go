package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// EventSource streams committed journals.
type EventSource interface {
	Listen(ctx context.Context) (<-chan model.JournalEvent, func() error, error)
}

// StatsRefresher recomputes the cached dashboard statistics.
type StatsRefresher interface {
	RefreshHeadlineStats(ctx context.Context) (*model.HeadlineStats, error)
}

// StatsWorker re-warms today's dashboard statistics after every journal submission,
// so the principal's next request is served from Redis.
type StatsWorker struct {
	events     EventSource
	stats      StatsRefresher
	log        zerolog.Logger
	retryDelay time.Duration
}

// NewStatsWorker creates a new StatsWorker.
func NewStatsWorker(events EventSource, stats StatsRefresher, log zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		events:     events,
		stats:      stats,
		log:        log.With().Str("component", "stats_worker").Logger(),
		retryDelay: 5 * time.Second,
	}
}

// Start runs until ctx is cancelled. Call in a goroutine.
func (w *StatsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	w.refresh(ctx)
	for {
		if err := w.consume(ctx); err != nil {
			w.log.Error().Err(err).Dur("retry_in", w.retryDelay).Msg("Journal feed unavailable")
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-time.After(w.retryDelay):
		}
	}
}

// consume returns when ctx ends or the subscription drops.
func (w *StatsWorker) consume(ctx context.Context) error {
	events, closeFeed, err := w.events.Listen(ctx)
	if err != nil {
		return err
	}
	defer closeFeed()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			w.log.Debug().Int("journal_id", event.JournalID).Msg("Refreshing statistics")
			w.refresh(ctx)
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) {
	if _, err := w.stats.RefreshHeadlineStats(ctx); err != nil && ctx.Err() == nil {
		w.log.Warn().Err(err).Msg("Statistics refresh failed")
	}
}
