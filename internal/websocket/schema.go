package websocket

import "github.com/examhall/examhall-backend/internal/model"

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
	EventError    Event = "error"
	EventSessions Event = "sessions"
	EventPong     Event = "pong"
)

// SessionsResponse carries one monitoring snapshot of in-flight attempts.
type SessionsResponse struct {
	Event    Event                  `json:"event"`
	Sessions []model.SessionSummary `json:"sessions"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
