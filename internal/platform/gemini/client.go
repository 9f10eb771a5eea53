package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"cookcart/internal/converter"
	"cookcart/internal/recipe"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

type generateFunc func(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)

// Client is a client for the Gemini API.
type Client struct {
	client   *genai.Client
	generate generateFunc
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	return &Client{client: client, generate: m.GenerateContent}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ConvertRecipe asks Gemini to structure free recipe text.
func (c *Client) ConvertRecipe(ctx context.Context, text string) (*recipe.Recipe, error) {
	resp, err := c.generate(ctx, genai.Text(converter.Prompt(text)))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	reply, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from Gemini")
	}

	return converter.ExtractRecipe(string(reply))
}
