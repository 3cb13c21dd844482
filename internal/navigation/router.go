// Package navigation implements the client router and its guards.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jobit-client/internal/events"
)

const maxRedirects = 10

// ErrRedirectLoop is returned when guards keep redirecting.
var ErrRedirectLoop = errors.New("navigation redirect loop")

// Location is the destination of a route transition.
type Location struct {
	Path     string
	FullPath string
	Query    url.Values
}

// ParseLocation splits target into path and query.
func ParseLocation(target string) (Location, error) {
	u, err := url.Parse(target)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", target, err)
	}
	if u.IsAbs() || u.Host != "" {
		return Location{}, fmt.Errorf("location %q must be a path", target)
	}
	path := u.Path
	if path == "" {
		path = RootRoute
	}
	full := path
	if u.RawQuery != "" {
		full += "?" + u.RawQuery
	}
	return Location{Path: path, FullPath: full, Query: u.Query()}, nil
}

// Guard runs before a transition. A non-empty redirect replaces the destination.
type Guard func(ctx context.Context, to Location) (redirect string, err error)

// Router holds the current location and runs guards on every transition.
type Router struct {
	mu         sync.Mutex
	current    string
	history    []string
	guards     []Guard
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRouter builds a router positioned at the root route.
func NewRouter(dispatcher events.Dispatcher, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	return &Router{current: RootRoute, dispatcher: dispatcher, logger: logger}
}

// BeforeEach appends a guard. Guards run in registration order.
func (r *Router) BeforeEach(g Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards = append(r.guards, g)
}

// Push navigates to target and returns the location actually reached.
func (r *Router) Push(ctx context.Context, target string) (string, error) {
	r.mu.Lock()
	guards := append([]Guard{}, r.guards...)
	r.mu.Unlock()

	for hop := 0; hop <= maxRedirects; hop++ {
		loc, err := ParseLocation(target)
		if err != nil {
			return "", err
		}

		redirect, err := runGuards(ctx, guards, loc)
		if err != nil {
			return "", err
		}
		if redirect != "" && redirect != loc.FullPath {
			r.logger.Debug("navigation redirected", zap.String("from", loc.FullPath), zap.String("to", redirect))
			target = redirect
			continue
		}

		r.mu.Lock()
		from := r.current
		r.current = loc.FullPath
		r.history = append(r.history, loc.FullPath)
		r.mu.Unlock()

		r.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventNavigated,
			Timestamp: time.Now(),
			Payload:   events.NavigatedPayload{From: from, To: loc.FullPath},
		})
		return loc.FullPath, nil
	}
	return "", fmt.Errorf("%w: last target %q", ErrRedirectLoop, target)
}

func runGuards(ctx context.Context, guards []Guard, loc Location) (string, error) {
	for _, g := range guards {
		redirect, err := g(ctx, loc)
		if err != nil {
			return "", err
		}
		if redirect != "" {
			return redirect, nil
		}
	}
	return "", nil
}

// Current returns the current location.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns every location reached, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
