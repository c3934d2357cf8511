// Package gemini implements the Analyzer port on the Gemini generative API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/ericfisherdev/contacttriage/internal/domain/port/driven"
)

// DefaultModel is the model every classification request is sent to.
const DefaultModel = "gemini-1.5-flash"

// ErrAPIKeyRequired is returned when an Analyzer is constructed without a key.
var ErrAPIKeyRequired = errors.New("gemini API key is required")

// Compile-time interface satisfaction check.
var _ driven.Analyzer = (*Analyzer)(nil)

// Analyzer implements driven.Analyzer with a single generateContent call that
// declares a strict JSON response schema.
type Analyzer struct {
	client *genai.Client
	model  string
}

// NewAnalyzer creates an Analyzer authenticated with apiKey against the
// public Gemini API endpoint.
func NewAnalyzer(ctx context.Context, apiKey string) (*Analyzer, error) {
	return NewAnalyzerWithHTTPClient(ctx, apiKey, nil, "")
}

// NewAnalyzerWithHTTPClient creates an Analyzer with a custom http.Client and
// base URL. This constructor is intended for testing, allowing injection of an
// httptest server. An empty baseURL keeps the SDK default.
func NewAnalyzerWithHTTPClient(ctx context.Context, apiKey string, httpClient *http.Client, baseURL string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Analyzer{client: client, model: DefaultModel}, nil
}

// NewAnalyzerFactory returns a driven.AnalyzerFactory that builds Analyzers
// against the public endpoint.
func NewAnalyzerFactory() driven.AnalyzerFactory {
	return func(ctx context.Context, apiKey string) (driven.Analyzer, error) {
		return NewAnalyzer(ctx, apiKey)
	}
}

// Analyze sends message inside the fixed analysis prompt and returns the
// response text. An empty response is reported as an error.
func (a *Analyzer) Analyze(ctx context.Context, message string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: BuildPrompt(message)}},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", a.model, err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("no response from model")
	}
	return text, nil
}
