package navigation

import (
	"context"
	"regexp"
	"strings"

	"github.com/spec-kit/jobit-client/internal/domain"
)

// SessionReader is the slice of session state the guards need.
type SessionReader interface {
	IsLoggedIn(ctx context.Context) bool
	Role(ctx context.Context) (domain.Role, bool)
	SetReturnURL(target string)
}

// RequireAuth redirects to the login route when a non-public destination is
// requested without a session, remembering the destination for after login.
func RequireAuth(sess SessionReader, public []*regexp.Regexp) Guard {
	return func(ctx context.Context, to Location) (string, error) {
		if IsPublic(to.Path, public) {
			return "", nil
		}
		if sess.IsLoggedIn(ctx) {
			return "", nil
		}
		sess.SetReturnURL(to.FullPath)
		return LoginRoute, nil
	}
}

// RequireRole sends logged-in users lacking role to the forbidden route when
// they navigate under one of prefixes. Anonymous users are left to RequireAuth.
func RequireRole(sess SessionReader, role domain.Role, prefixes ...string) Guard {
	return func(ctx context.Context, to Location) (string, error) {
		if !underAny(to.Path, prefixes) || !sess.IsLoggedIn(ctx) {
			return "", nil
		}
		if got, ok := sess.Role(ctx); ok && got == role {
			return "", nil
		}
		return ForbiddenRoute, nil
	}
}

func underAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimRight(p, "/")
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
