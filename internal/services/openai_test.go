package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

func TestOpenAIService_Complete(t *testing.T) {
	var captured chatRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}]}`))
	}))
	defer server.Close()

	svc := NewOpenAIService("sk-test", server.URL+"/", "gpt-4o-mini", 5*time.Second)
	got, err := svc.Complete(context.Background(), CompletionRequest{
		System:      "be helpful",
		Prompt:      "suggest jobs",
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "[]" {
		t.Errorf("content = %q", got)
	}

	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	if captured.Model != "gpt-4o-mini" || captured.MaxTokens != 2000 || captured.Temperature != 0.7 {
		t.Errorf("request = %+v", captured)
	}
	if len(captured.Messages) != 2 ||
		captured.Messages[0].Role != "system" || captured.Messages[0].Content != "be helpful" ||
		captured.Messages[1].Role != "user" || captured.Messages[1].Content != "suggest jobs" {
		t.Errorf("messages = %+v", captured.Messages)
	}
}

func TestOpenAIService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-2xx",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"rate limited"}}`,
			check: func(t *testing.T, err error) {
				var statusErr *UpstreamStatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != 429 {
					t.Fatalf("expected UpstreamStatusError 429, got %v", err)
				}
				if err.Error() != "OpenAI API error: 429" {
					t.Errorf("message = %q", err.Error())
				}
			},
		},
		{
			name:   "plain text error page",
			status: http.StatusServiceUnavailable,
			body:   `upstream connect error`,
			check: func(t *testing.T, err error) {
				var statusErr *UpstreamStatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != 503 {
					t.Fatalf("expected UpstreamStatusError 503, got %v", err)
				}
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrEmptyCompletion) {
					t.Fatalf("expected ErrEmptyCompletion, got %v", err)
				}
			},
		},
		{
			name:   "garbage body",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected decode error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewOpenAIService("k", server.URL, "m", time.Second).
				Complete(context.Background(), CompletionRequest{Prompt: "p"})
			tt.check(t, err)
		})
	}
}
