// Package apiclient talks to the Career Match HTTP API on behalf of the
// terminal front end.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"alfredoptarigan/career-match/internal/models"
)

var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	Kind       string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Kind)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: 3 * time.Minute},
	}
}

func (c *Client) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	var resp models.ProfileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/profile", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

func (c *Client) UpsertProfile(ctx context.Context, token string, profile models.UserProfile) (*models.UserProfile, error) {
	var resp models.ProfileResponse
	if err := c.doJSON(ctx, http.MethodPut, "/profile", token, profile, &resp); err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

// SuggestJobs returns the number of suggestions stored for the caller.
func (c *Client) SuggestJobs(ctx context.Context, token string, profile models.UserProfile) (int, error) {
	var resp models.GenerateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/suggest-jobs", token, models.GenerateRequest{Profile: profile}, &resp); err != nil {
		return 0, err
	}
	return resp.Suggestions, nil
}

func (c *Client) ListSuggestions(ctx context.Context, token string) ([]models.JobSuggestion, error) {
	var resp models.SuggestionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/suggestions", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

func (c *Client) UploadResume(ctx context.Context, token, path string) (*models.UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("resume", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	var resp models.UploadResponse
	if err := c.do(ctx, http.MethodPost, "/profile/resume", token, mw.FormDataContentType(), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	return c.do(ctx, method, path, token, "application/json", body, out)
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		var e models.ErrorResponse
		_ = json.Unmarshal(raw, &e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: e.Error, Kind: e.Kind}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %v", ErrNotFound, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
