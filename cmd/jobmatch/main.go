package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"alfredoptarigan/career-match/internal/apiclient"
	"alfredoptarigan/career-match/internal/config"
	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/presentation"
)

type terminal struct {
	out     io.Writer
	gateway *identity.Gateway
	api     *apiclient.Client

	state     presentation.State
	form      *presentation.ProfileForm
	saved     *presentation.SavedJobs
	dashboard presentation.Dashboard
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := &terminal{
		out:     os.Stdout,
		gateway: identity.NewGateway(cfg.Auth.URL, cfg.Auth.AnonKey),
		api:     apiclient.New(cfg.Client.APIURL),
		state:   presentation.InitialState(),
		form:    presentation.NewProfileForm(),
		saved:   presentation.NewSavedJobs(),
	}

	events, unsubscribe := t.gateway.Subscribe()
	defer unsubscribe()
	sessionActions := presentation.SessionActions(ctx, events)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	t.showStage()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out, "\n👋 Bye")
			return
		case action, ok := <-sessionActions:
			if !ok {
				return
			}
			t.apply(ctx, action)
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := t.handle(ctx, strings.TrimSpace(line)); quit {
				if _, ok := t.gateway.CurrentSession(); ok {
					if err := t.gateway.SignOut(context.Background()); err != nil {
						log.Printf("⚠️  %v", err)
					}
				}
				return
			}
		}
	}
}

// apply folds an action into the state and re-renders when the stage moves.
func (t *terminal) apply(ctx context.Context, action presentation.Action) {
	prev := t.state.Stage
	t.state = presentation.Reduce(t.state, action)
	presentation.RenderNotice(t.out, t.state.Notice)

	if t.state.Stage != prev {
		if t.state.Stage == presentation.StageProfile {
			t.loadProfile(ctx)
		}
		if t.state.Stage == presentation.StageDashboard {
			t.refreshDashboard(ctx)
		}
		t.showStage()
	}
}

func (t *terminal) notify(title, description string, destructive bool) {
	t.notice(presentation.Notice{
		Title:       title,
		Description: description,
		Destructive: destructive,
	})
}

func (t *terminal) notice(n presentation.Notice) {
	t.state = presentation.Reduce(t.state, presentation.Notify{Notice: n})
	presentation.RenderNotice(t.out, t.state.Notice)
}

func (t *terminal) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		t.showStage()
		return false
	}

	switch t.state.Stage {
	case presentation.StageHome:
		t.apply(ctx, presentation.GetStarted{})
	case presentation.StageAuth:
		t.handleAuth(ctx, cmd, arg)
	case presentation.StageProfile:
		t.handleProfile(ctx, cmd, arg)
	case presentation.StageDashboard:
		t.handleDashboard(ctx, cmd, arg)
	}
	return false
}

func (t *terminal) handleAuth(ctx context.Context, cmd, arg string) {
	fields := strings.Fields(arg)

	switch cmd {
	case "signin":
		if len(fields) != 2 {
			fmt.Fprintln(t.out, "usage: signin <email> <password>")
			return
		}
		if _, err := t.gateway.SignIn(ctx, fields[0], fields[1]); err != nil {
			t.notice(presentation.AuthFailureNotice(err))
		}
	case "signup":
		if len(fields) < 3 {
			fmt.Fprintln(t.out, "usage: signup <email> <password> <full name>")
			return
		}
		err := t.gateway.SignUp(ctx, fields[0], fields[1], strings.Join(fields[2:], " "))
		if err != nil {
			t.notice(presentation.AuthFailureNotice(err))
			return
		}
		t.notify("Account created!", "Please check your email to verify your account.", false)
	default:
		t.showStage()
	}
}

func (t *terminal) handleProfile(ctx context.Context, cmd, arg string) {
	switch cmd {
	case "name":
		t.form.Name = arg
	case "education":
		if err := t.form.SetEducation(arg); err != nil {
			t.notify("Invalid education", err.Error(), true)
			return
		}
	case "specialization":
		t.form.Specialization = arg
	case "skill":
		if !t.form.AddSkill(arg) {
			fmt.Fprintf(t.out, "skipped %q (empty or already added)\n", arg)
		}
	case "unskill":
		t.form.RemoveSkill(arg)
	case "interest":
		if !t.form.AddInterest(arg) {
			fmt.Fprintf(t.out, "skipped %q (empty or already added)\n", arg)
		}
	case "uninterest":
		t.form.RemoveInterest(arg)
	case "resume":
		t.uploadResume(ctx, arg)
		return
	case "submit":
		t.submitProfile(ctx)
		return
	case "signout":
		t.signOut(ctx)
		return
	default:
		t.showStage()
		return
	}
	presentation.RenderProfileForm(t.out, t.form)
}

func (t *terminal) handleDashboard(ctx context.Context, cmd, arg string) {
	switch cmd {
	case "jobs", "refresh":
		t.refreshDashboard(ctx)
		t.showStage()
	case "job", "save":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(t.dashboard.Jobs) {
			fmt.Fprintf(t.out, "usage: %s <1-%d>\n", cmd, len(t.dashboard.Jobs))
			return
		}
		job := t.dashboard.Jobs[n-1]
		if cmd == "job" {
			presentation.RenderJob(t.out, job)
			return
		}
		if t.saved.Toggle(job.ID) {
			fmt.Fprintf(t.out, "★ saved %s\n", job.Title)
		} else {
			fmt.Fprintf(t.out, "removed %s from saved jobs\n", job.Title)
		}
	case "learn":
		if err := presentation.RenderCourses(t.out, t.dashboard.Courses); err != nil {
			log.Printf("⚠️  %v", err)
		}
	case "edit":
		t.apply(ctx, presentation.EditProfile{})
	case "signout":
		t.signOut(ctx)
	default:
		t.showStage()
	}
}

func (t *terminal) submitProfile(ctx context.Context) {
	if !t.form.CanSubmit() {
		t.notify("Profile incomplete", "Name, education and at least one skill are required.", true)
		return
	}

	token, ok := t.token(ctx)
	if !ok {
		t.apply(ctx, presentation.ProfileCompleted{Profile: t.form.Profile()})
		return
	}

	saved, err := t.api.UpsertProfile(ctx, token, t.form.Profile())
	if err != nil {
		t.notify("Error saving profile", err.Error(), true)
		return
	}

	fmt.Fprintln(t.out, "⏳ Getting your personalized job suggestions...")
	if n, err := t.api.SuggestJobs(ctx, token, *saved); err != nil {
		// the dashboard still works with sample jobs
		t.notify("Suggestions unavailable", err.Error(), true)
	} else {
		t.notify("Profile saved!", fmt.Sprintf("%d job suggestions ready.", n), false)
	}

	t.apply(ctx, presentation.ProfileCompleted{Profile: *saved})
}

func (t *terminal) uploadResume(ctx context.Context, path string) {
	token, ok := t.token(ctx)
	if !ok {
		t.notify("Authentication required", "Please log in to continue", true)
		return
	}

	resp, err := t.api.UploadResume(ctx, token, path)
	if err != nil {
		t.notify("Resume upload failed", err.Error(), true)
		return
	}
	t.notify("Resume uploaded", fmt.Sprintf("%s: %d pages, %d characters", resp.OriginalName, resp.PageCount, resp.Characters), false)
}

func (t *terminal) loadProfile(ctx context.Context) {
	token, ok := t.token(ctx)
	if !ok {
		return
	}

	profile, err := t.api.GetProfile(ctx, token)
	if err != nil {
		if !errors.Is(err, apiclient.ErrNotFound) {
			t.notify("Could not load profile", err.Error(), true)
		}
		return
	}
	t.form = presentation.ProfileFormFrom(*profile)
}

func (t *terminal) refreshDashboard(ctx context.Context) {
	var stored []models.JobSuggestion
	if token, ok := t.token(ctx); ok {
		rows, err := t.api.ListSuggestions(ctx, token)
		if err != nil {
			t.notify("Could not load suggestions", err.Error(), true)
		} else {
			stored = rows
		}
	}
	t.dashboard = presentation.BuildDashboard(t.state.Profile, stored, t.saved)
}

func (t *terminal) signOut(ctx context.Context) {
	if err := t.gateway.SignOut(ctx); err != nil {
		t.notify("Sign out", err.Error(), true)
	}
	t.form = presentation.NewProfileForm()
	t.saved = presentation.NewSavedJobs()
}

// token returns a usable access token, refreshing an expired session once.
func (t *terminal) token(ctx context.Context) (string, bool) {
	if s, ok := t.gateway.CurrentSession(); ok {
		return s.AccessToken, true
	}
	if t.state.Session == nil {
		return "", false
	}
	s, err := t.gateway.RefreshSession(ctx)
	if err != nil {
		t.notify("Session expired", err.Error(), true)
		return "", false
	}
	return s.AccessToken, true
}

func (t *terminal) showStage() {
	switch t.state.Stage {
	case presentation.StageHome:
		fmt.Fprintln(t.out, "\n🎯 Career Match: find jobs that fit your skills.")
		fmt.Fprintln(t.out, "Press enter to get started, or type quit.")
	case presentation.StageAuth:
		fmt.Fprintln(t.out, "\nWelcome Back")
		fmt.Fprintln(t.out, "  signin <email> <password>")
		fmt.Fprintln(t.out, "  signup <email> <password> <full name>")
	case presentation.StageProfile:
		fmt.Fprintln(t.out, "\nTell us about yourself")
		levels := make([]string, 0, len(models.EducationLevels))
		for _, e := range models.EducationLevels {
			levels = append(levels, string(e))
		}
		fmt.Fprintf(t.out, "  name <..> | education <%s> | specialization <..>\n", strings.Join(levels, "|"))
		fmt.Fprintln(t.out, "  skill <..> | unskill <..> | interest <..> | uninterest <..> | resume <path>")
		fmt.Fprintln(t.out, "  submit | signout")
		presentation.RenderProfileForm(t.out, t.form)
	case presentation.StageDashboard:
		if err := presentation.RenderDashboard(t.out, t.dashboard, t.saved); err != nil {
			log.Printf("⚠️  %v", err)
		}
		fmt.Fprintln(t.out, "\n  job <n> | save <n> | learn | refresh | edit | signout")
	}
}
