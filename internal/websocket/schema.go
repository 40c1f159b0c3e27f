package websocket

import "github.com/stemsi/ejurnal-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventConnected Event = "connected"
	EventJournal   Event = "journal.submitted"
	EventPong      Event = "pong"
	EventError     Event = "error"
)

// ConnectedResponse greets a new feed subscriber.
type ConnectedResponse struct {
	Event Event  `json:"event"`
	User  string `json:"user"`
}

// JournalResponse carries one submitted journal.
type JournalResponse struct {
	Event   Event              `json:"event"`
	Journal model.JournalEvent `json:"data"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
