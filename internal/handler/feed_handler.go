package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/ejurnal-backend/internal/middleware"
	"github.com/stemsi/ejurnal-backend/internal/model"
	"github.com/stemsi/ejurnal-backend/internal/response"
	ws "github.com/stemsi/ejurnal-backend/internal/websocket"
)

// JournalListener streams submitted journals until ctx ends or close is called.
type JournalListener interface {
	Listen(ctx context.Context) (<-chan model.JournalEvent, func() error, error)
}

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// FeedHandler pushes submitted journals to connected principals.
type FeedHandler struct {
	feed     JournalListener
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feed JournalListener, log zerolog.Logger, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		feed:     feed,
		log:      log.With().Str("component", "feed_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// JournalFeed godoc
// WS /ws/v1/kepsek/feed?token=...
// Streams a "journal.submitted" event for every committed journal.
func (h *FeedHandler) JournalFeed(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, closeFeed, err := h.feed.Listen(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Journal feed subscription failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer closeFeed()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("user_id", identity.SubjectID).Logger()
	wsLog.Info().Msg("Principal connected to journal feed")

	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, User: identity.DisplayName}); err != nil {
		return
	}

	// gorilla/websocket allows one reader and one writer; the reader only
	// signals pings and disconnects, every write happens in the loop below.
	pings := make(chan struct{}, 1)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Feed connection closed")
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.JournalResponse{Event: ws.EventJournal, Journal: event}); err != nil {
				wsLog.Warn().Err(err).Msg("Failed to push journal event")
				return
			}
		}
	}
}
