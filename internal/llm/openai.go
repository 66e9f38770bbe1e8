package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

// ErrProviderStatus is returned when the provider answers non-2xx.
var ErrProviderStatus = errors.New("provider returned error status")

// ErrEmptyReply is returned when the provider reply carries no message text.
var ErrEmptyReply = errors.New("provider returned no completion")

// OpenAIProvider calls the OpenAI chat completions endpoint (or any
// compatible server at BaseURL) with a strict JSON schema response format.
type OpenAIProvider struct {
	Client openai.Client
	Model  string
	hasKey bool
}

// NewOpenAIProvider returns an OpenAIProvider with a per-request timeout.
// The SDK's own retries are disabled; a failed call is reported as is.
func NewOpenAIProvider(apiKey, baseURL, model string, timeout time.Duration) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	return &OpenAIProvider{
		Client: openai.NewClient(opts...),
		Model:  model,
		hasKey: apiKey != "",
	}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return "openai" }

// poemSchema is the JSON schema shared by the structured-output request.
func poemSchema() map[string]any {
	line := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lineOne":   line,
			"lineTwo":   line,
			"lineThree": line,
		},
		"required":             []string{"lineOne", "lineTwo", "lineThree"},
		"additionalProperties": false,
	}
}

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if !p.hasKey {
		return "", ErrMissingAPIKey
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.9),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "haiku",
					Strict: openai.Bool(true),
					Schema: poemSchema(),
				},
			},
		},
	}

	start := time.Now()
	resp, err := p.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = http.StatusText(apiErr.StatusCode)
			}
			return "", fmt.Errorf("%w %d: %s", ErrProviderStatus, apiErr.StatusCode, msg)
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	log.Ctx(ctx).Debug().
		Str("model", p.Model).
		Dur("latency", time.Since(start)).
		Msg("openai completion")

	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	msg := resp.Choices[0].Message
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		if msg.Refusal != "" {
			return "", fmt.Errorf("%w: refused: %s", ErrEmptyReply, msg.Refusal)
		}
		return "", ErrEmptyReply
	}
	return content, nil
}
