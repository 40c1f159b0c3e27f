package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/ejurnal-backend/internal/config"
	"github.com/stemsi/ejurnal-backend/internal/model"
)

// JournalFeed fans submitted journals out to every server instance over Redis PubSub.
type JournalFeed struct {
	rdb *redis.Client
}

// NewJournalFeed creates a JournalFeed.
func NewJournalFeed(rdb *redis.Client) *JournalFeed {
	return &JournalFeed{rdb: rdb}
}

// PublishJournal announces a committed journal.
func (f *JournalFeed) PublishJournal(ctx context.Context, event model.JournalEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode journal event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.JournalFeedChannel(), payload).Err()
}

// Listen subscribes to the feed and streams decoded events until ctx is done
// or the returned close func is called. Malformed payloads are dropped.
func (f *JournalFeed) Listen(ctx context.Context) (<-chan model.JournalEvent, func() error, error) {
	ps := f.rdb.Subscribe(ctx, config.CacheKey.JournalFeedChannel())
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe journal feed: %w", err)
	}

	out := make(chan model.JournalEvent)
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				event, err := DecodeJournalEvent(msg.Payload)
				if err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, ps.Close, nil
}

// DecodeJournalEvent parses a feed message payload.
func DecodeJournalEvent(payload string) (model.JournalEvent, error) {
	var event model.JournalEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, fmt.Errorf("decode journal event: %w", err)
	}
	return event, nil
}
