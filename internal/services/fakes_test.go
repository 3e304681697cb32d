package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/repositories"
)

type fakeVerifier struct {
	tokens map[string]uuid.UUID
	err    error
}

func (v *fakeVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	if token == "" {
		return nil, identity.ErrMissingToken
	}
	id, ok := v.tokens[token]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Identity{UserID: id}, nil
}

type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	last     CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.response, f.err
}

func (f *fakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type memorySuggestionRepo struct {
	mu         sync.Mutex
	rows       map[uuid.UUID][]models.JobSuggestion
	replaceErr error
}

func newMemorySuggestionRepo() *memorySuggestionRepo {
	return &memorySuggestionRepo{rows: make(map[uuid.UUID][]models.JobSuggestion)}
}

func (r *memorySuggestionRepo) ReplaceForUser(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaceErr != nil {
		return r.replaceErr
	}
	stored := make([]models.JobSuggestion, len(rows))
	copy(stored, rows)
	for i := range stored {
		stored[i].UserID = userID
	}
	r.rows[userID] = stored
	return nil
}

func (r *memorySuggestionRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.JobSuggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.JobSuggestion, len(r.rows[userID]))
	copy(out, r.rows[userID])
	return out, nil
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
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	return ids, nil
}

type recordingIndexer struct {
	mu    sync.Mutex
	calls []uuid.UUID
	rows  int
	err   error
	done  chan struct{}
}

func (i *recordingIndexer) IndexSuggestions(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error {
	i.mu.Lock()
	i.calls = append(i.calls, userID)
	i.rows += len(rows)
	i.mu.Unlock()
	if i.done != nil {
		i.done <- struct{}{}
	}
	return i.err
}

func (i *recordingIndexer) Calls() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.calls)
}

type recordingPublisher struct {
	events []SuggestionsGeneratedEvent
	err    error
}

func (p *recordingPublisher) PublishSuggestionsGenerated(ctx context.Context, event SuggestionsGeneratedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

var errBoom = errors.New("boom")
