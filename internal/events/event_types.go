package events

import (
	"time"

	"github.com/spec-kit/clinic-portal-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionRenewed      EventType = "session_renewed"
	EventSessionEnded        EventType = "session_ended"
	EventSessionForcedLogout EventType = "session_forced_logout"
	EventHeartbeatStarted    EventType = "heartbeat_started"
	EventHeartbeatStopped    EventType = "heartbeat_stopped"
)

// Event represents a session lifecycle event emitted by the gateway.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// SessionRenewedPayload payload.
type SessionRenewedPayload struct {
	TimeLeft time.Duration `json:"time_left"`
}

// SessionForcedLogoutPayload payload.
type SessionForcedLogoutPayload struct {
	Message string `json:"message,omitempty"`
}
