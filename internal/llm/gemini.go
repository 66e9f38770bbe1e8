package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider calls Google's Gemini API through the genai SDK, asking for
// an application/json reply constrained by a response schema.
type GeminiProvider struct {
	Client  *genai.Client
	Model   string
	Timeout time.Duration // per call; 0 means the caller's deadline only
}

// NewGeminiProvider builds a Gemini API client. baseURL overrides the API
// endpoint when non-empty. An empty apiKey yields a provider whose calls fail
// with ErrMissingAPIKey.
func NewGeminiProvider(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*GeminiProvider, error) {
	if apiKey == "" {
		return &GeminiProvider{Model: model, Timeout: timeout}, nil
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiProvider{Client: client, Model: model, Timeout: timeout}, nil
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Complete implements Provider.
func (p *GeminiProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if p.Client == nil {
		return "", ErrMissingAPIKey
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	line := &genai.Schema{Type: genai.TypeString}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"lineOne":   line,
				"lineTwo":   line,
				"lineThree": line,
			},
			Required:         []string{"lineOne", "lineTwo", "lineThree"},
			PropertyOrdering: []string{"lineOne", "lineTwo", "lineThree"},
		},
	}

	resp, err := p.Client.Models.GenerateContent(ctx, p.Model, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
