package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingToken = errors.New("no authorization header")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSession    = errors.New("not signed in")
)

// AuthError is a failure reported by the identity provider, kept verbatim so
// the caller can show it to the user.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("identity provider error: %d", e.Status)
}

func IsInvalidCredentials(err error) bool {
	return hasCode(err, "invalid_credentials", "invalid_grant")
}

func IsEmailNotConfirmed(err error) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Code == "email_not_confirmed" ||
		strings.Contains(strings.ToLower(authErr.Message), "email not confirmed")
}

func IsRateLimited(err error) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Status == http.StatusTooManyRequests ||
		strings.HasPrefix(authErr.Code, "over_")
}

// isConfirmationEmailFailure matches the provider's answer when the account
// was created but the verification mail could not be sent.
func isConfirmationEmailFailure(err error) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Code == "email_send_failed" ||
		strings.Contains(strings.ToLower(authErr.Message), "error sending confirmation email")
}

func hasCode(err error, codes ...string) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	for _, c := range codes {
		if authErr.Code == c {
			return true
		}
	}
	return false
}
