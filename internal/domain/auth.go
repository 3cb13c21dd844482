package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// Role enumerates the account roles encoded in access tokens.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleCandidate      Role = "CANDIDATE"
	RoleCompanyManager Role = "COMPANY_MANAGER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCandidate, RoleCompanyManager:
		return true
	}
	return false
}

// SessionToken is the credential returned by the token endpoint.
type SessionToken struct {
	oauth2.Token
}

// NewSessionToken wraps a bearer access token.
func NewSessionToken(accessToken string) *SessionToken {
	return &SessionToken{Token: oauth2.Token{AccessToken: accessToken, TokenType: "bearer"}}
}

// Present reports whether the token carries an access token.
func (t *SessionToken) Present() bool {
	return t != nil && t.AccessToken != ""
}

// Claims are the decoded, unverified contents of an access token.
type Claims struct {
	Email     string `json:"sub"`
	SubjectID string `json:"id"`
	Role      Role   `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

// Expired reports whether the claims expiry is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}
