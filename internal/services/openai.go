package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type openAIService struct {
	client *openai.Client
	model  string
}

// NewOpenAIService talks to an OpenAI-compatible chat completions API.
// baseURL is the host without the /v1 suffix.
func NewOpenAIService(apiKey, baseURL, model string, timeout time.Duration) CompletionService {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	config.HTTPClient = &http.Client{Timeout: timeout}

	return &openAIService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Complete implements CompletionService.
func (o *openAIService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", openAIError(err)
	}

	log.Println("📊 OpenAI response received")

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

// openAIError turns status failures reported by the client into
// UpstreamStatusError and leaves transport and decode errors wrapped.
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		log.Printf("❌ OpenAI API error: %s\n", apiErr.Message)
		return &UpstreamStatusError{
			Provider:   "OpenAI",
			StatusCode: apiErr.HTTPStatusCode,
			Body:       apiErr.Message,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		log.Printf("❌ OpenAI API error: %v\n", reqErr)
		return &UpstreamStatusError{
			Provider:   "OpenAI",
			StatusCode: reqErr.HTTPStatusCode,
			Body:       reqErr.Error(),
		}
	}

	return fmt.Errorf("OpenAI request failed: %w", err)
}
