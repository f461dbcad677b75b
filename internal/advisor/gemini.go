package advisor

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"pharmapulse/backend/internal/apperror"
)

const (
	serviceName  = "assistant"
	defaultModel = "gemini-2.5-flash"
	apiVersion   = "v1beta"
)

// Client generates free text for a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient generates text through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a Gemini API client. An empty baseURL keeps the
// SDK's public endpoint.
func NewGeminiClient(ctx context.Context, baseURL, model, apiKey string) (*GeminiClient, error) {
	if model == "" {
		model = defaultModel
	}
	opts := genai.HTTPOptions{APIVersion: apiVersion}
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		opts.BaseURL = baseURL + "/"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: 20 * time.Second},
		HTTPOptions: opts,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", apperror.NewExternalUnavailable(serviceName, err)
	}
	return strings.TrimSpace(result.Text()), nil
}
