// Package session holds the bearer token of the single logged-in account and
// its decoded claims, persisted across restarts in a durable key-value store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/auth"
	"github.com/spec-kit/jobit-client/internal/domain"
	"github.com/spec-kit/jobit-client/internal/events"
	"github.com/spec-kit/jobit-client/internal/gateway"
	"github.com/spec-kit/jobit-client/internal/messages"
	"github.com/spec-kit/jobit-client/internal/navigation"
	"github.com/spec-kit/jobit-client/internal/persistence"
)

// Storage keys. Both are cleared together on logout.
const (
	TokenKey  = "jobit-user"
	ClaimsKey = "jobit-user-claims"
)

// ErrInvalidCredentials is matched by errors.Is for rejected logins.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNoExchanger is returned by Login before SetExchanger was called.
var ErrNoExchanger = errors.New("session has no token exchanger")

// InvalidCredentialsError carries the localized login failure message.
type InvalidCredentialsError struct {
	Message string
	Err     error
}

func (e *InvalidCredentialsError) Error() string { return e.Message }

// Unwrap exposes both ErrInvalidCredentials and the gateway rejection.
func (e *InvalidCredentialsError) Unwrap() []error { return []error{ErrInvalidCredentials, e.Err} }

// Exchanger performs the form-encoded password grant.
type Exchanger interface {
	PostForm(ctx context.Context, rawURL string, form url.Values, out any) error
}

// Navigator performs post-login and post-logout navigation.
type Navigator interface {
	Push(ctx context.Context, target string) (string, error)
}

// Option customizes a State.
type Option func(*State)

// WithNavigator sets the navigator.
func WithNavigator(nav Navigator) Option { return func(s *State) { s.navigator = nav } }

// WithDispatcher sets the dispatcher change notifications are published on.
func WithDispatcher(d events.Dispatcher) Option { return func(s *State) { s.dispatcher = d } }

// WithMessages sets the table the invalid credentials message is resolved from.
func WithMessages(t *messages.Table) Option { return func(s *State) { s.messages = t } }

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option { return func(s *State) { s.logger = logger } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *State) { s.now = now } }

// WithEagerExpiryLogout makes IsLoggedIn log out when it finds an expired token.
func WithEagerExpiryLogout(enabled bool) Option { return func(s *State) { s.eagerExpiryLogout = enabled } }

// State is the session context. The mutex guards the in-memory fields only and is
// never held across storage, network or navigation calls.
type State struct {
	store             persistence.Store
	tokenURL          string
	exchanger         Exchanger
	navigator         Navigator
	dispatcher        events.Dispatcher
	messages          *messages.Table
	logger            *zap.Logger
	now               func() time.Time
	eagerExpiryLogout bool

	mu        sync.Mutex
	token     *domain.SessionToken
	claims    *domain.Claims
	returnURL string
}

// New builds an empty session. Call Hydrate to restore a persisted one.
func New(store persistence.Store, tokenURL string, opts ...Option) *State {
	s := &State{
		store:             store,
		tokenURL:          tokenURL,
		logger:            zap.NewNop(),
		now:               time.Now,
		eagerExpiryLogout: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatcher == nil {
		s.dispatcher = events.NewInMemoryDispatcher(s.logger)
	}
	if s.messages == nil {
		s.messages = messages.MustLoad("es")
	}
	return s
}

// SetExchanger binds the gateway used by Login.
func (s *State) SetExchanger(e Exchanger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanger = e
}

// Subscribe registers a handler for session notifications.
func (s *State) Subscribe(eventType events.EventType, handler events.EventHandler) {
	s.dispatcher.Subscribe(eventType, handler)
}

// Hydrate restores token and claims from durable storage. Unreadable entries are discarded.
func (s *State) Hydrate(ctx context.Context) error {
	rawToken, ok, err := s.store.Get(ctx, TokenKey)
	if errors.Is(err, persistence.ErrSealBroken) {
		s.logger.Warn("discarding persisted session that cannot be opened", zap.Error(err))
		return s.store.Delete(ctx, TokenKey, ClaimsKey)
	}
	if err != nil {
		return fmt.Errorf("read persisted token: %w", err)
	}
	if !ok {
		if err := s.store.Delete(ctx, ClaimsKey); err != nil {
			return fmt.Errorf("drop orphan claims: %w", err)
		}
		return nil
	}

	var token domain.SessionToken
	if err := json.Unmarshal([]byte(rawToken), &token); err != nil || !token.Present() {
		s.logger.Warn("discarding unreadable persisted token", zap.Error(err))
		return s.store.Delete(ctx, TokenKey, ClaimsKey)
	}

	claims := s.persistedClaims(ctx, token.AccessToken)

	s.mu.Lock()
	s.token = &token
	s.claims = claims
	s.mu.Unlock()
	s.logger.Info("session restored")
	return nil
}

// persistedClaims returns the stored claims only when they describe accessToken.
// Stale or unreadable claims are removed so they are decoded again on demand.
func (s *State) persistedClaims(ctx context.Context, accessToken string) *domain.Claims {
	rawClaims, ok, err := s.store.Get(ctx, ClaimsKey)
	if err != nil {
		s.logger.Warn("read persisted claims failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var stored domain.Claims
	if err := json.Unmarshal([]byte(rawClaims), &stored); err != nil {
		s.logger.Warn("discarding unreadable persisted claims", zap.Error(err))
		s.dropClaims(ctx)
		return nil
	}
	decoded, err := auth.DecodeClaims(accessToken)
	if err != nil || *decoded != stored {
		s.logger.Warn("discarding persisted claims that do not match the token", zap.Error(err))
		s.dropClaims(ctx)
		return nil
	}
	return &stored
}

func (s *State) dropClaims(ctx context.Context) {
	if err := s.store.Delete(ctx, ClaimsKey); err != nil {
		s.logger.Warn("drop persisted claims failed", zap.Error(err))
	}
}

// Login exchanges credentials for a token, persists it and continues to the
// remembered return URL or the root route.
func (s *State) Login(ctx context.Context, identifier, secret string) error {
	s.mu.Lock()
	exchanger := s.exchanger
	s.mu.Unlock()
	if exchanger == nil {
		return ErrNoExchanger
	}

	form := url.Values{"username": {identifier}, "password": {secret}}
	var token domain.SessionToken
	if err := exchanger.PostForm(ctx, s.tokenURL, form, &token); err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return &InvalidCredentialsError{Message: s.messages.Resolve(messages.InvalidCredentialsKey), Err: err}
		}
		return err
	}
	if !token.Present() {
		return errors.New("token endpoint returned no access_token")
	}

	raw, err := json.Marshal(&token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := s.store.Set(ctx, TokenKey, string(raw)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.store.Delete(ctx, ClaimsKey); err != nil {
		s.logger.Warn("clear stale claims failed", zap.Error(err))
	}

	s.mu.Lock()
	s.token = &token
	s.claims = nil
	returnURL := s.returnURL
	s.returnURL = ""
	s.mu.Unlock()

	payload := events.TokenChangedPayload{}
	if claims, ok := s.Claims(ctx); ok {
		payload.Subject = claims.SubjectID
	}
	s.publish(ctx, events.EventTokenChanged, payload)
	s.logger.Info("logged in", zap.String("subject", payload.Subject))

	if returnURL == "" {
		returnURL = navigation.RootRoute
	}
	s.navigate(ctx, returnURL)
	return nil
}

// Claims returns the cached claims, decoding and caching them from the token on first use.
// It returns false when there is no token or the token cannot be decoded.
func (s *State) Claims(ctx context.Context) (domain.Claims, bool) {
	s.mu.Lock()
	if s.token == nil {
		s.mu.Unlock()
		return domain.Claims{}, false
	}
	if s.claims != nil {
		c := *s.claims
		s.mu.Unlock()
		return c, true
	}
	accessToken := s.token.AccessToken
	s.mu.Unlock()

	claims, err := auth.DecodeClaims(accessToken)
	if err != nil {
		s.logger.Warn("decode access token claims failed", zap.Error(err))
		return domain.Claims{}, false
	}

	s.mu.Lock()
	current := s.token != nil && s.token.AccessToken == accessToken
	if current {
		s.claims = claims
	}
	s.mu.Unlock()
	if !current {
		return domain.Claims{}, false
	}

	if raw, err := json.Marshal(claims); err == nil {
		if err := s.store.Set(ctx, ClaimsKey, string(raw)); err != nil {
			s.logger.Warn("persist claims failed", zap.Error(err))
		}
	}
	s.publish(ctx, events.EventClaimsDecoded, events.ClaimsDecodedPayload{Claims: *claims})
	return *claims, true
}

// IsLoggedIn reports whether a token is held and its expiry is in the future.
func (s *State) IsLoggedIn(ctx context.Context) bool {
	claims, ok := s.Claims(ctx)
	if !ok {
		return false
	}
	if !claims.Expired(s.now()) {
		return true
	}
	if s.eagerExpiryLogout {
		if err := s.logout(ctx, "expired"); err != nil {
			s.logger.Warn("logout of expired session failed", zap.Error(err))
		}
	}
	return false
}

// AccessToken returns the bearer token while the session is logged in.
func (s *State) AccessToken(ctx context.Context) (string, bool) {
	if !s.IsLoggedIn(ctx) {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return "", false
	}
	return s.token.AccessToken, true
}

// Role returns the role claim.
func (s *State) Role(ctx context.Context) (domain.Role, bool) {
	claims, ok := s.Claims(ctx)
	if !ok || claims.Role == "" {
		return "", false
	}
	return claims.Role, true
}

// IsAdmin reports whether the claims carry the ADMIN role.
func (s *State) IsAdmin(ctx context.Context) bool { return s.hasRole(ctx, domain.RoleAdmin) }

// IsCandidate reports whether the claims carry the CANDIDATE role.
func (s *State) IsCandidate(ctx context.Context) bool { return s.hasRole(ctx, domain.RoleCandidate) }

// IsCompanyManager reports whether the claims carry the COMPANY_MANAGER role.
func (s *State) IsCompanyManager(ctx context.Context) bool {
	return s.hasRole(ctx, domain.RoleCompanyManager)
}

func (s *State) hasRole(ctx context.Context, role domain.Role) bool {
	got, ok := s.Role(ctx)
	return ok && got == role
}

// SetReturnURL remembers where to go after the next login.
func (s *State) SetReturnURL(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.returnURL = target
}

// ReturnURL returns the remembered destination.
func (s *State) ReturnURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.returnURL
}

// Logout clears the session from memory and storage and navigates to the login route.
// Calling it again is harmless.
func (s *State) Logout(ctx context.Context) error {
	return s.logout(ctx, "logout")
}

func (s *State) logout(ctx context.Context, reason string) error {
	s.mu.Lock()
	hadSession := s.token != nil || s.claims != nil
	s.token = nil
	s.claims = nil
	s.mu.Unlock()

	err := s.store.Delete(ctx, TokenKey, ClaimsKey)
	if err != nil {
		err = fmt.Errorf("clear persisted session: %w", err)
	}
	if hadSession {
		s.logger.Info("logged out", zap.String("reason", reason))
		s.publish(ctx, events.EventLoggedOut, events.LoggedOutPayload{Reason: reason})
	}
	s.navigate(ctx, navigation.LoginRoute)
	return err
}

func (s *State) navigate(ctx context.Context, target string) {
	if s.navigator == nil {
		return
	}
	if _, err := s.navigator.Push(ctx, target); err != nil {
		s.logger.Warn("session navigation failed", zap.String("target", target), zap.Error(err))
	}
}

func (s *State) publish(ctx context.Context, t events.EventType, payload interface{}) {
	s.dispatcher.Publish(ctx, events.Event{Type: t, Timestamp: s.now(), Payload: payload})
}
