package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/services"
)

const modelAnswer = `[
  {"job_title": "Frontend Developer", "match_percentage": 92, "reason": "React.", "required_skills": ["React"], "salary_range": "$80k", "location": "Remote"},
  {"job_title": "UI Engineer", "match_percentage": 84, "reason": "CSS.", "required_skills": ["CSS"], "salary_range": "$75k", "location": "Berlin"},
  {"job_title": "Full Stack Developer", "match_percentage": 77, "reason": "Node.", "required_skills": ["Node.js"], "salary_range": "$90k", "location": "Austin"}
]`

type suggestionApp struct {
	app  *fiber.App
	llm  *staticLLM
	repo *memorySuggestionRepo
}

func newSuggestionApp(t *testing.T, legacy bool) *suggestionApp {
	t.Helper()

	parser, err := services.NewSuggestionParser()
	if err != nil {
		t.Fatalf("NewSuggestionParser: %v", err)
	}

	verifier := identity.NewJWTVerifier(testSecret)
	llm := &staticLLM{response: modelAnswer}
	repo := newMemorySuggestionRepo()
	generator := services.NewSuggestionGenerator(verifier, llm, repo, services.NewPromptBuilder(), parser, nil, nil)
	handler := NewSuggestionHandler(generator, repo, legacy)

	app := fiber.New()
	app.Use(CORS())
	app.Post("/suggest-jobs", handler.HandleSuggestJobs)
	auth := RequireAuth(verifier)
	app.Get("/suggestions", auth, handler.HandleListSuggestions)
	app.Get("/suggestions/:id", auth, handler.HandleGetSuggestion)

	return &suggestionApp{app: app, llm: llm, repo: repo}
}

var validRequest = models.GenerateRequest{Profile: models.UserProfile{
	Education:      models.EducationBachelors,
	Specialization: "Computer Science",
	Skills:         []string{"React", "TypeScript"},
	Interests:      []string{"Design"},
}}

func TestCORSPreflight(t *testing.T) {
	s := newSuggestionApp(t, false)

	resp, body := doRequest(t, s.app, http.MethodOptions, "/suggest-jobs", "", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(body) != 0 {
		t.Errorf("expected empty body, got %q", body)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Errorf("Allow-Headers = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") || !strings.Contains(got, "OPTIONS") {
		t.Errorf("Allow-Methods = %q", got)
	}
	if s.llm.calls != 0 {
		t.Error("preflight must not reach the generator")
	}
}

func TestHandleSuggestJobs_Success(t *testing.T) {
	s := newSuggestionApp(t, false)
	userID := uuid.New()
	token := signToken(t, userID)

	resp, body := doRequest(t, s.app, http.MethodPost, "/suggest-jobs", token, validRequest)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var got models.GenerateResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Success || got.Suggestions != 3 {
		t.Errorf("response = %+v", got)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing on success response")
	}

	// the stored rows are visible to the owner
	resp, body = doRequest(t, s.app, http.MethodGet, "/suggestions", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var list models.SuggestionsResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Suggestions) != 3 {
		t.Fatalf("list = %+v", list.Suggestions)
	}
	for _, row := range list.Suggestions {
		if row.JobType != "Full-time" || row.Company != "Various Companies" {
			t.Errorf("row %s defaults = %q %q", row.JobTitle, row.JobType, row.Company)
		}
	}

	path := "/suggestions/" + list.Suggestions[1].ID.String()
	if resp, _ := doRequest(t, s.app, http.MethodGet, path, token, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("get own suggestion status = %d", resp.StatusCode)
	}
	if resp, _ := doRequest(t, s.app, http.MethodGet, path, signToken(t, uuid.New()), nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get foreign suggestion status = %d", resp.StatusCode)
	}
	if resp, _ := doRequest(t, s.app, http.MethodGet, "/suggestions/not-a-uuid", token, nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad id status = %d", resp.StatusCode)
	}
}

func TestHandleSuggestJobs_Errors(t *testing.T) {
	tests := []struct {
		name        string
		legacy      bool
		token       string
		body        interface{}
		llmResponse string
		wantStatus  int
		wantError   string
		wantKind    string
	}{
		{
			name:       "missing header",
			body:       validRequest,
			wantStatus: http.StatusUnauthorized,
			wantError:  "No authorization header",
			wantKind:   "unauthorized",
		},
		{
			name:       "forged token",
			token:      "forged",
			body:       validRequest,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
			wantKind:   "unauthorized",
		},
		{
			name:       "forged token with malformed body",
			token:      "forged",
			body:       "{not json",
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
			wantKind:   "unauthorized",
		},
		{
			name:  "forged token with invalid profile",
			token: "forged",
			body: models.GenerateRequest{Profile: models.UserProfile{
				Skills: []string{"React", "React"},
			}},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
			wantKind:   "unauthorized",
		},
		{
			name:       "legacy status",
			legacy:     true,
			body:       validRequest,
			wantStatus: http.StatusInternalServerError,
			wantError:  "No authorization header",
			wantKind:   "unauthorized",
		},
		{
			name:       "malformed body",
			token:      "valid",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request payload",
		},
		{
			name:  "duplicate skills",
			token: "valid",
			body: models.GenerateRequest{Profile: models.UserProfile{
				Skills: []string{"React", "React"},
			}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "model answers prose",
			token:       "valid",
			body:        validRequest,
			llmResponse: "I cannot help with that.",
			wantStatus:  http.StatusBadGateway,
			wantError:   "Invalid AI response format",
			wantKind:    "invalid_model_output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuggestionApp(t, tt.legacy)
			if tt.llmResponse != "" {
				s.llm.response = tt.llmResponse
			}

			token := tt.token
			if token == "valid" {
				token = signToken(t, uuid.New())
			}

			resp, body := doRequest(t, s.app, http.MethodPost, "/suggest-jobs", token, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", resp.StatusCode, tt.wantStatus, body)
			}

			var got models.ErrorResponse
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Error == "" {
				t.Error("error message missing")
			}
			if tt.wantError != "" && got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if tt.wantStatus != http.StatusBadGateway && s.llm.calls != 0 {
				t.Error("model called for a rejected request")
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	s := newSuggestionApp(t, false)

	resp, body := doRequest(t, s.app, http.MethodGet, "/suggestions", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got map[string]string
	_ = json.Unmarshal(body, &got)
	if got["error"] != "No authorization header" {
		t.Errorf("error = %q", got["error"])
	}

	resp, body = doRequest(t, s.app, http.MethodGet, "/suggestions", signToken(t, uuid.New()), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var list models.SuggestionsResponse
	_ = json.Unmarshal(body, &list)
	if list.Suggestions == nil {
		t.Error("empty list should encode as [] not null")
	}
}
