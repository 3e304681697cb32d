package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/repositories"
	"alfredoptarigan/career-match/internal/services"
)

const testSecret = "handler-test-secret"

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := identity.NewJWTVerifier(testSecret).SignToken(userID, "ada@example.com", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	return token
}

type memoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]models.Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[uuid.UUID]models.Profile)}
}

func (r *memoryProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.profiles[profile.UserID]
	if ok {
		profile.ResumeKey = existing.ResumeKey
		profile.ResumeFilename = existing.ResumeFilename
		profile.ResumeMimeType = existing.ResumeMimeType
		profile.ResumeText = existing.ResumeText
		profile.ResumePageCount = existing.ResumePageCount
	}
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *memoryProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return &p, nil
}

func (r *memoryProfileRepo) UpdateResume(ctx context.Context, userID uuid.UUID, data *repositories.ResumeUpdateData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.ResumeKey = data.Key
	p.ResumeFilename = data.Filename
	p.ResumeMimeType = data.MimeType
	p.ResumeText = data.Text
	p.ResumePageCount = data.PageCount
	r.profiles[userID] = p
	return nil
}

type memorySuggestionRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID][]models.JobSuggestion
}

func newMemorySuggestionRepo() *memorySuggestionRepo {
	return &memorySuggestionRepo{rows: make(map[uuid.UUID][]models.JobSuggestion)}
}

func (r *memorySuggestionRepo) ReplaceForUser(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[userID] = append([]models.JobSuggestion(nil), rows...)
	return nil
}

func (r *memorySuggestionRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.JobSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.JobSuggestion(nil), r.rows[userID]...), nil
}

func (r *memorySuggestionRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.JobSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows[userID] {
		if row.ID == id {
			return &row, nil
		}
	}
	return nil, repositories.ErrSuggestionNotFound
}

func (r *memorySuggestionRepo) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

type staticLLM struct {
	response string
	err      error
	calls    int
}

func (s *staticLLM) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	s.calls++
	return s.response, s.err
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, raw
}
