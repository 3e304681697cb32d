package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

// Gateway is a client for a GoTrue-compatible auth API. It keeps the
// current session in memory and fans session changes out to subscribers.
type Gateway struct {
	client    auth.Client
	transport http.RoundTripper
	timeout   time.Duration
	now       func() time.Time

	mu          sync.Mutex
	session     *Session
	subscribers map[int]chan SessionEvent
	nextSubID   int
}

func NewGateway(baseURL, apiKey string) *Gateway {
	client := auth.New("", apiKey).
		WithCustomAuthURL(strings.TrimRight(baseURL, "/") + "/auth/v1")

	return &Gateway{
		client:      client,
		transport:   http.DefaultTransport,
		timeout:     30 * time.Second,
		now:         time.Now,
		subscribers: make(map[int]chan SessionEvent),
	}
}

type providerError struct {
	Code             interface{} `json:"code"`
	ErrorCode        string      `json:"error_code"`
	Msg              string      `json:"msg"`
	Message          string      `json:"message"`
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description"`
}

// SignUp creates the account. The provider sends a verification e-mail out
// of band, so no session is returned. A failure to send that e-mail does
// not fail the sign-up.
func (g *Gateway) SignUp(ctx context.Context, email, password, displayName string) error {
	err := g.call(ctx, "", func(c auth.Client) error {
		_, err := c.Signup(types.SignupRequest{
			Email:    email,
			Password: password,
			Data: map[string]interface{}{
				"full_name": displayName,
			},
		})
		return err
	})
	if err != nil {
		if isConfirmationEmailFailure(err) {
			log.Printf("⚠️  Sign-up for %s succeeded but the verification e-mail failed: %v\n", email, err)
			return nil
		}
		return err
	}

	return nil
}

// SignIn exchanges credentials for a session and makes it current.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp *types.TokenResponse
	err := g.call(ctx, "", func(c auth.Client) error {
		var err error
		resp, err = c.SignInWithEmailPassword(email, password)
		return err
	})
	if err != nil {
		return nil, err
	}

	session, err := g.toSession(resp)
	if err != nil {
		return nil, err
	}

	g.setSession(session, EventSignedIn)
	return session, nil
}

// RefreshSession trades the refresh token of the held session, expired or
// not, for a new session.
func (g *Gateway) RefreshSession(ctx context.Context) (*Session, error) {
	g.mu.Lock()
	var refreshToken string
	if g.session != nil {
		refreshToken = g.session.RefreshToken
	}
	g.mu.Unlock()

	if refreshToken == "" {
		return nil, ErrNoSession
	}

	var resp *types.TokenResponse
	err := g.call(ctx, "", func(c auth.Client) error {
		var err error
		resp, err = c.RefreshToken(refreshToken)
		return err
	})
	if err != nil {
		return nil, err
	}

	session, err := g.toSession(resp)
	if err != nil {
		return nil, err
	}

	g.setSession(session, EventTokenRefreshed)
	return session, nil
}

// CurrentSession returns the session held by the gateway, if any and not
// expired.
func (g *Gateway) CurrentSession() (*Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session == nil || g.session.Expired(g.now()) {
		return nil, false
	}
	s := *g.session
	return &s, true
}

// SignOut revokes the session at the provider and clears it locally. The
// local session is cleared even when the provider call fails.
func (g *Gateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	current := g.session
	g.mu.Unlock()

	if current == nil {
		return nil
	}

	err := g.call(ctx, current.AccessToken, func(c auth.Client) error {
		return c.Logout()
	})
	g.setSession(nil, EventSignedOut)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// Subscribe returns a stream of session changes. Call the returned function
// to stop listening; it closes the channel.
func (g *Gateway) Subscribe() (<-chan SessionEvent, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSubID
	g.nextSubID++
	ch := make(chan SessionEvent, 8)
	g.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.subscribers, id)
			close(ch)
		})
	}
}

// Verify resolves a bearer token by asking the provider for its user.
func (g *Gateway) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	var user *types.UserResponse
	err := g.call(ctx, token, func(c auth.Client) error {
		var err error
		user, err = c.GetUser()
		return err
	})
	if err != nil {
		if rejectsToken(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, err
	}

	if user.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: provider returned no user id", ErrInvalidToken)
	}

	return &Identity{UserID: user.ID, Email: user.Email}, nil
}

func (g *Gateway) setSession(session *Session, event EventType) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.session = session

	var payload *Session
	if session != nil {
		s := *session
		payload = &s
	}

	for id, ch := range g.subscribers {
		select {
		case ch <- SessionEvent{Type: event, Session: payload}:
		default:
			log.Printf("⚠️  Session subscriber %d is not keeping up, dropped %s\n", id, event)
		}
	}
}

func (g *Gateway) toSession(resp *types.TokenResponse) (*Session, error) {
	if resp == nil || resp.AccessToken == "" {
		return nil, fmt.Errorf("identity provider returned no access token")
	}
	if resp.User.ID == uuid.Nil {
		return nil, fmt.Errorf("identity provider returned no user id")
	}

	var expiresAt time.Time
	switch {
	case resp.ExpiresAt > 0:
		expiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		expiresAt = g.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	fullName, _ := resp.User.UserMetadata["full_name"].(string)

	return &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt,
		User: User{
			ID:       resp.User.ID,
			Email:    resp.User.Email,
			FullName: fullName,
		},
	}, nil
}

// call runs fn against a client bound to ctx and, when set, the bearer
// token. The auth client reports provider failures only as text, so the
// failed response is captured on the way through and decoded into an
// *AuthError.
func (g *Gateway) call(ctx context.Context, bearer string, fn func(auth.Client) error) error {
	rec := &responseRecorder{ctx: ctx, next: g.transport}
	client := g.client.WithClient(http.Client{Transport: rec, Timeout: g.timeout})
	if bearer != "" {
		client = client.WithToken(bearer)
	}

	err := fn(client)
	if err == nil {
		return nil
	}
	if rec.failed {
		return decodeProviderError(rec.status, rec.body)
	}
	if rec.transportErr != nil {
		return fmt.Errorf("identity provider unreachable: %w", rec.transportErr)
	}
	return fmt.Errorf("identity provider: %w", err)
}

// responseRecorder keeps the status and body of a non-2xx answer and puts
// the body back for the auth client to read.
type responseRecorder struct {
	ctx  context.Context
	next http.RoundTripper

	failed       bool
	status       int
	body         []byte
	transportErr error
}

func (r *responseRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.next.RoundTrip(req.WithContext(r.ctx))
	if err != nil {
		r.transportErr = err
		return nil, err
	}

	if resp.StatusCode/100 != 2 {
		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			r.transportErr = readErr
			return nil, readErr
		}
		r.failed = true
		r.status = resp.StatusCode
		r.body = raw
		resp.Body = io.NopCloser(bytes.NewReader(raw))
	}

	return resp, nil
}

// rejectsToken reports whether the provider refused the token itself, as
// opposed to being unavailable or throttling the lookup.
func rejectsToken(err error) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Status < http.StatusInternalServerError &&
		authErr.Status != http.StatusTooManyRequests
}

func decodeProviderError(status int, raw []byte) *AuthError {
	authErr := &AuthError{Status: status}

	var pe providerError
	if err := json.Unmarshal(raw, &pe); err != nil {
		authErr.Message = strings.TrimSpace(string(raw))
		return authErr
	}

	// older providers put the symbolic code in "code" and newer ones use
	// "error_code" with a numeric "code"
	authErr.Code = pe.ErrorCode
	if code, ok := pe.Code.(string); ok && authErr.Code == "" {
		authErr.Code = code
	}
	if authErr.Code == "" {
		authErr.Code = pe.Error
	}

	for _, m := range []string{pe.Msg, pe.Message, pe.ErrorDescription, pe.Error} {
		if m != "" {
			authErr.Message = m
			break
		}
	}

	return authErr
}
