package dto

import (
	"github.com/spec-kit/jobit-client/internal/domain"
	"github.com/spec-kit/jobit-client/internal/messages"
)

// LoginRequest payload for POST /accounts/login. Accepts form or JSON bodies.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// SessionResponse describes the hosted session.
type SessionResponse struct {
	LoggedIn  bool              `json:"logged_in"`
	Role      domain.Role       `json:"role,omitempty"`
	Claims    *domain.Claims    `json:"claims,omitempty"`
	Location  string            `json:"location"`
	ReturnURL string            `json:"return_url,omitempty"`
	Notices   []messages.Notice `json:"notices,omitempty"`
}

// NavigationResponse reports where a session action left the router.
type NavigationResponse struct {
	Location string `json:"location"`
}

// ViewResponse is the body of a page route.
type ViewResponse struct {
	View     string `json:"view"`
	Location string `json:"location"`
	Data     any    `json:"data,omitempty"`
}
