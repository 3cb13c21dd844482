package events

import (
	"time"

	"github.com/spec-kit/jobit-client/internal/domain"
)

// EventType enumerates session change notifications.
type EventType string

const (
	EventTokenChanged  EventType = "token_changed"
	EventClaimsDecoded EventType = "claims_decoded"
	EventLoggedOut     EventType = "logged_out"
	EventNavigated     EventType = "navigated"
)

// Event is a notification published by session state or the router.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TokenChangedPayload payload.
type TokenChangedPayload struct {
	Subject string `json:"subject,omitempty"`
}

// ClaimsDecodedPayload payload.
type ClaimsDecodedPayload struct {
	Claims domain.Claims `json:"claims"`
}

// LoggedOutPayload payload.
type LoggedOutPayload struct {
	Reason string `json:"reason"`
}

// NavigatedPayload payload.
type NavigatedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}
