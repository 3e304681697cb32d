package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/models"
)

func TestClient_SuggestJobs(t *testing.T) {
	var got models.GenerateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/suggest-jobs" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(models.GenerateResponse{Success: true, Suggestions: 6})
	}))
	defer server.Close()

	n, err := New(server.URL+"/").SuggestJobs(context.Background(), "tok", models.UserProfile{Skills: []string{"Go"}})
	if err != nil {
		t.Fatalf("SuggestJobs: %v", err)
	}
	if n != 6 {
		t.Errorf("n = %d", n)
	}
	if len(got.Profile.Skills) != 1 {
		t.Errorf("request profile = %+v", got.Profile)
	}
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/profile":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Profile not found"}`))
		case "/api/v1/suggest-jobs":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"Invalid AI response format","code":502,"kind":"invalid_model_output"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := New(server.URL)
	ctx := context.Background()

	if _, err := client.GetProfile(ctx, "tok"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProfile error = %v", err)
	}

	_, err := client.SuggestJobs(ctx, "tok", models.UserProfile{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 502 || apiErr.Kind != "invalid_model_output" || apiErr.Message != "Invalid AI response format" {
		t.Errorf("apiErr = %+v", apiErr)
	}

	_, err = client.ListSuggestions(ctx, "tok")
	if !errors.As(err, &apiErr) || apiErr.Message != "Internal Server Error" {
		t.Errorf("ListSuggestions error = %v", err)
	}
}

func TestClient_ListSuggestions(t *testing.T) {
	id := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.SuggestionsResponse{Suggestions: []models.JobSuggestion{{ID: id, JobTitle: "SRE"}}})
	}))
	defer server.Close()

	rows, err := New(server.URL).ListSuggestions(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListSuggestions: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != id {
		t.Errorf("rows = %+v", rows)
	}
}

func TestClient_UploadResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	if err := os.WriteFile(path, []byte("Go developer"), 0o644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("resume")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.UploadResponse{
			OriginalName: header.Filename,
			Characters:   len(data),
		})
	}))
	defer server.Close()

	resp, err := New(server.URL).UploadResume(context.Background(), "tok", path)
	if err != nil {
		t.Fatalf("UploadResume: %v", err)
	}
	if resp.OriginalName != "cv.txt" || resp.Characters != 12 {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := New(server.URL).UploadResume(context.Background(), "tok", filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for a missing file")
	}
}
