package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu       sync.Mutex
	failures int
	events   chan model.JournalEvent
	closed   atomic.Int32
}

func (f *fakeSource) Listen(context.Context) (<-chan model.JournalEvent, func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return nil, nil, errors.New("redis unavailable")
	}
	return f.events, func() error { f.closed.Add(1); return nil }, nil
}

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) RefreshHeadlineStats(context.Context) (*model.HeadlineStats, error) {
	c.calls.Add(1)
	return &model.HeadlineStats{}, nil
}

func runWorker(t *testing.T, w *StatsWorker) (context.CancelFunc, <-chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	return cancel, done
}

func TestStatsWorkerRefreshesOnEvents(t *testing.T) {
	source := &fakeSource{events: make(chan model.JournalEvent)}
	stats := &countingRefresher{}
	w := NewStatsWorker(source, stats, zerolog.Nop())

	cancel, done := runWorker(t, w)

	source.events <- model.JournalEvent{JournalID: 1}
	source.events <- model.JournalEvent{JournalID: 2}

	require.Eventually(t, func() bool { return stats.calls.Load() == 3 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.EqualValues(t, 1, source.closed.Load())
}

func TestStatsWorkerRetriesFailedSubscriptions(t *testing.T) {
	source := &fakeSource{failures: 2, events: make(chan model.JournalEvent)}
	stats := &countingRefresher{}
	w := NewStatsWorker(source, stats, zerolog.Nop())
	w.retryDelay = 5 * time.Millisecond

	cancel, done := runWorker(t, w)
	defer func() {
		cancel()
		<-done
	}()

	select {
	case source.events <- model.JournalEvent{JournalID: 9}:
	case <-time.After(time.Second):
		t.Fatal("worker never subscribed")
	}
	require.Eventually(t, func() bool { return stats.calls.Load() == 2 }, time.Second, 10*time.Millisecond)
}
