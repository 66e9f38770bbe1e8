package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrMissingAPIKey is returned by a provider that was built without a key.
var ErrMissingAPIKey = errors.New("provider API key not configured")

// Provider sends one chat-style completion request and returns the text of
// the single reply message.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Generator produces poems through a Provider. It holds no mutable state and
// is safe for concurrent use.
type Generator struct {
	Provider Provider
}

// NewGenerator returns a Generator over p.
func NewGenerator(p Provider) *Generator { return &Generator{Provider: p} }

// ProviderName reports the configured provider, for metrics labels.
func (g *Generator) ProviderName() string {
	if g == nil || g.Provider == nil {
		return "none"
	}
	return g.Provider.Name()
}

// GeneratePoem performs a single provider round trip for theme and parses
// the reply. There is no retry.
func (g *Generator) GeneratePoem(ctx context.Context, theme *string) (Poem, error) {
	tr := otel.Tracer("llm/Generator")
	ctx, span := tr.Start(ctx, "GeneratePoem",
		trace.WithAttributes(
			attribute.String("llm.provider", g.ProviderName()),
			attribute.Bool("haiku.themed", theme != nil),
		),
	)
	defer span.End()

	if g == nil || g.Provider == nil {
		return Poem{}, ErrMissingAPIKey
	}

	body, err := g.Provider.Complete(ctx, SystemTemplate, BuildPrompt(theme))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		return Poem{}, fmt.Errorf("%s: %w", g.Provider.Name(), err)
	}

	poem, err := ParsePoem(body)
	if err != nil {
		log.Ctx(ctx).Debug().Int("body_len", len(body)).Msg("unparsable poem reply")
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed reply")
		return Poem{}, err
	}
	return poem, nil
}
