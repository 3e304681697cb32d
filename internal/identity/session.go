// Package identity talks to the external identity provider: it signs users
// up and in, tracks the current session and resolves bearer tokens to user
// identities.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// Identity is what a valid bearer token resolves to.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"-"`
}

// Session is issued by the provider. The access token is used as the bearer
// credential towards the API.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventSignedOut      EventType = "SIGNED_OUT"
)

// SessionEvent is delivered to subscribers whenever the current session
// changes. Session is nil for EventSignedOut.
type SessionEvent struct {
	Type    EventType
	Session *Session
}
