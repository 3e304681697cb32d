package identity

import (
	"context"
	"strings"
)

// TokenVerifier resolves a bearer token to the identity that owns it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// BearerToken extracts the token from an Authorization header value. It
// returns ErrMissingToken for an empty header and ErrInvalidToken for any
// other scheme.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return "", ErrInvalidToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}

	return token, nil
}
