package navigation

import "regexp"

const (
	RootRoute            = "/"
	LoginRoute           = "/accounts/login"
	RegisterRoute        = "/accounts/register"
	RegisterCompanyRoute = "/accounts/register-company"
	JobsRoute            = "/jobs"
	ForbiddenRoute       = "/forbidden"
	NotFoundRoute        = "/not-found"
	ServerErrorRoute     = "/server-error"
)

// PublicPatterns lists the paths reachable without a session.
var PublicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^/$`),
	regexp.MustCompile(`^/accounts/login/?$`),
	regexp.MustCompile(`^/accounts/register/?$`),
	regexp.MustCompile(`^/accounts/register-company/?$`),
	regexp.MustCompile(`^/jobs/?$`),
	regexp.MustCompile(`^/jobs/[^/]+/?$`),
	regexp.MustCompile(`^/(forbidden|not-found|server-error)/?$`),
}

// IsPublic reports whether path matches one of patterns.
func IsPublic(path string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}
