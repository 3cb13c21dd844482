package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobit-client/internal/api/dto"
	"github.com/spec-kit/jobit-client/internal/messages"
	"github.com/spec-kit/jobit-client/internal/navigation"
	"github.com/spec-kit/jobit-client/internal/session"
	apperrors "github.com/spec-kit/jobit-client/pkg/util"
)

// SessionHandler exposes the hosted session.
type SessionHandler struct {
	session *session.State
	router  *navigation.Router
	inbox   *messages.Inbox
}

// NewSessionHandler constructs handler. inbox may be nil.
func NewSessionHandler(sess *session.State, router *navigation.Router, inbox *messages.Inbox) *SessionHandler {
	return &SessionHandler{session: sess, router: router, inbox: inbox}
}

// Show handles GET /session.
func (h *SessionHandler) Show(c *fiber.Ctx) error {
	ctx := c.UserContext()
	resp := dto.SessionResponse{
		LoggedIn:  h.session.IsLoggedIn(ctx),
		Location:  h.router.Current(),
		ReturnURL: h.session.ReturnURL(),
	}
	if h.inbox != nil {
		resp.Notices = h.inbox.Drain()
	}
	if resp.LoggedIn {
		if claims, ok := h.session.Claims(ctx); ok {
			resp.Claims = &claims
			resp.Role = claims.Role
		}
	}
	return c.JSON(resp)
}

// Login handles POST /accounts/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	if err := h.session.Login(c.UserContext(), req.Username, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.NavigationResponse{Location: h.router.Current()})
}

// Logout handles POST /accounts/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.session.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.NavigationResponse{Location: h.router.Current()})
}
