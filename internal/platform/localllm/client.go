package localllm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"cookcart/internal/converter"
	"cookcart/internal/recipe"
)

const (
	// DefaultURL is the chat completions endpoint of a local LM Studio server.
	DefaultURL = "http://localhost:1234/v1/chat/completions"
	// DefaultModel is used when no model name is configured.
	DefaultModel = "gemma-3-12b-it"
)

// Client represents a client for an OpenAI compatible local LLM.
type Client struct {
	httpClient *http.Client
	apiURL     string
	model      string
	// MaxElapsed bounds the retries of a single call.
	MaxElapsed time.Duration
}

// NewClient creates a new client for the local LLM. Empty arguments select the defaults.
func NewClient(apiURL, model string) *Client {
	if apiURL == "" {
		apiURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		apiURL:     apiURL,
		model:      model,
		MaxElapsed: 20 * time.Second,
	}
}

// Request represents the request body for the local LLM.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Message represents a message in the request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response represents the response from the local LLM.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a choice in the response.
type Choice struct {
	Message Message `json:"message"`
}

// GenerateContent sends prompt to the local LLM and returns the first reply.
// Transport failures and 5xx answers are retried; 4xx answers are not.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBytes, err := json.Marshal(Request{
		Model:       c.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: 0.2,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	var llmResp Response
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBytes))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := fmt.Errorf("received non-OK status code: %d: %s", resp.StatusCode, bytes.TrimSpace(body))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}

		if err := json.NewDecoder(resp.Body).Decode(&llmResp); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.MaxElapsed
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}

	if len(llmResp.Choices) == 0 {
		return "", fmt.Errorf("no content found in response")
	}
	return llmResp.Choices[0].Message.Content, nil
}

// ConvertRecipe asks the local LLM to structure free recipe text.
func (c *Client) ConvertRecipe(ctx context.Context, text string) (*recipe.Recipe, error) {
	reply, err := c.GenerateContent(ctx, converter.Prompt(text))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return converter.ExtractRecipe(reply)
}
