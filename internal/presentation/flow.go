// Package presentation holds the terminal front end's state. Nothing here
// does I/O except the renderers, which write to an io.Writer.
package presentation

import (
	"context"

	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
)

type Stage string

const (
	StageHome      Stage = "home"
	StageAuth      Stage = "auth"
	StageProfile   Stage = "profile"
	StageDashboard Stage = "dashboard"
)

// Notice is a transient user-facing message.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// State is everything the views render from. It is passed around by value.
type State struct {
	Stage   Stage
	Session *identity.Session
	Profile *models.UserProfile
	Notice  *Notice
}

func InitialState() State {
	return State{Stage: StageHome}
}

func (s State) SignedIn() bool {
	return s.Session != nil
}

type Action interface {
	isAction()
}

type GetStarted struct{}

type SessionChanged struct {
	Event identity.SessionEvent
}

type ProfileCompleted struct {
	Profile models.UserProfile
}

type EditProfile struct{}

type Notify struct {
	Notice Notice
}

func (GetStarted) isAction()       {}
func (SessionChanged) isAction()   {}
func (ProfileCompleted) isAction() {}
func (EditProfile) isAction()      {}
func (Notify) isAction()           {}

// Reduce applies one action and returns the next state. The notice of the
// previous state is cleared unless the action sets a new one.
func Reduce(state State, action Action) State {
	next := state
	next.Notice = nil

	switch a := action.(type) {
	case GetStarted:
		if state.SignedIn() {
			next.Stage = StageProfile
		} else {
			next.Stage = StageAuth
		}

	case SessionChanged:
		switch a.Event.Type {
		case identity.EventSignedIn:
			next.Session = a.Event.Session
			if state.Stage == StageHome || state.Stage == StageAuth {
				next.Stage = StageProfile
			}
		case identity.EventTokenRefreshed:
			next.Session = a.Event.Session
		case identity.EventSignedOut:
			next = State{Stage: StageHome}
		}

	case ProfileCompleted:
		if !state.SignedIn() {
			next.Stage = StageAuth
			next.Notice = &Notice{
				Title:       "Authentication required",
				Description: "Please log in to continue",
				Destructive: true,
			}
			break
		}
		profile := a.Profile
		next.Profile = &profile
		next.Stage = StageDashboard

	case EditProfile:
		if state.Stage == StageDashboard {
			next.Stage = StageProfile
		}

	case Notify:
		notice := a.Notice
		next.Notice = &notice
	}

	return next
}

// SessionActions turns gateway session events into actions for Reduce. The
// returned channel is closed when events closes or ctx ends.
func SessionActions(ctx context.Context, events <-chan identity.SessionEvent) <-chan Action {
	actions := make(chan Action)

	go func() {
		defer close(actions)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				select {
				case actions <- SessionChanged{Event: ev}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return actions
}

// AuthFailureNotice picks the message shown when signing in or up fails.
func AuthFailureNotice(err error) Notice {
	switch {
	case identity.IsEmailNotConfirmed(err):
		return Notice{
			Title:       "Please verify your email",
			Description: "Open the link we sent you, then sign in again.",
			Destructive: true,
		}
	case identity.IsRateLimited(err):
		return Notice{
			Title:       "Too many attempts",
			Description: "Please wait a moment before trying again.",
			Destructive: true,
		}
	case identity.IsInvalidCredentials(err):
		return Notice{
			Title:       "Authentication failed",
			Description: "Invalid email or password.",
			Destructive: true,
		}
	default:
		return Notice{Title: "Authentication failed", Description: err.Error(), Destructive: true}
	}
}
