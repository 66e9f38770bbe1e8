// Package services – HaikuService
//
// HaikuService orchestrates generation: poem, then country, then a persisted
// record. Each failing step is handed to the error reporter exactly once and
// surfaced as a *Failure. Reads cover the full list, a uniform random pick
// (optionally by exact theme) and point lookups by id.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/domain"
	"github.com/tbourn/go-haiku-backend/internal/llm"
	"github.com/tbourn/go-haiku-backend/internal/repo"
)

// PoemGenerator produces the three lines of a haiku.
type PoemGenerator interface {
	GeneratePoem(ctx context.Context, theme *string) (llm.Poem, error)
	ProviderName() string
}

// CountryResolver maps a request to its country, or nil when unknown.
type CountryResolver interface {
	ResolveCountry(ctx context.Context, rc RequestContext) (*domain.Country, error)
}

// HaikuService coordinates poem generation, country resolution and
// persistence.
type HaikuService struct {
	DB       *gorm.DB
	Poems    PoemGenerator
	Location CountryResolver
	Reporter *LoggingService

	// BestEffortCountry keeps generating when country resolution fails; the
	// record is then stored without a country. The failure is still reported.
	BestEffortCountry bool

	// IntN picks the random index; nil uses math/rand/v2.
	IntN func(n int) int
}

// NewHaikuService constructs a HaikuService with strict country resolution.
func NewHaikuService(db *gorm.DB, poems PoemGenerator, loc CountryResolver, reporter *LoggingService) *HaikuService {
	return &HaikuService{DB: db, Poems: poems, Location: loc, Reporter: reporter}
}

// GenerateHaiku creates and persists a new haiku for theme (nil for a random
// theme), tagged with the caller's country.
func (s *HaikuService) GenerateHaiku(ctx context.Context, rc RequestContext, theme *string) (*domain.Haiku, error) {
	tr := otel.Tracer("services/HaikuService")
	ctx, span := tr.Start(ctx, "GenerateHaiku",
		trace.WithAttributes(attribute.Bool("haiku.themed", theme != nil)),
	)
	defer span.End()

	lg := ctxLogger(ctx)
	provider := s.Poems.ProviderName()

	poem, err := s.Poems.GeneratePoem(ctx, theme)
	if err != nil {
		haikuGenerations.WithLabelValues(provider, "poem_error").Inc()
		return nil, s.fail(ctx, span, lg, LabelGenerate, err)
	}

	country, err := s.Location.ResolveCountry(ctx, rc)
	if err != nil {
		// A *Failure has already been reported by the resolver.
		if _, reported := AsFailure(err); !reported {
			err = s.fail(ctx, span, lg, LabelResolveCountry, err)
		}
		if !s.BestEffortCountry {
			haikuGenerations.WithLabelValues(provider, "country_error").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "country resolution failed")
			return nil, err
		}
		lg.Warn().Err(err).Msg("continuing without country")
		country = nil
	}

	h := &domain.Haiku{
		LineOne:   poem.LineOne,
		LineTwo:   poem.LineTwo,
		LineThree: poem.LineThree,
		Theme:     theme,
	}
	if country != nil {
		h.CountryID = &country.ID
		h.Country = country
	}

	if err := repo.CreateHaiku(ctx, s.DB, h); err != nil {
		haikuGenerations.WithLabelValues(provider, "save_error").Inc()
		return nil, s.fail(ctx, span, lg, LabelSaveHaiku, err)
	}
	haikuGenerations.WithLabelValues(provider, "ok").Inc()
	span.SetAttributes(attribute.Int64("haiku.id", int64(h.ID)))
	return h, nil
}

// GetRandomHaiku returns one haiku chosen uniformly at random, restricted to
// exact theme matches when theme is non-nil. An empty candidate set yields
// (nil, nil).
func (s *HaikuService) GetRandomHaiku(ctx context.Context, theme *string) (*domain.Haiku, error) {
	tr := otel.Tracer("services/HaikuService")
	ctx, span := tr.Start(ctx, "GetRandomHaiku",
		trace.WithAttributes(attribute.Bool("haiku.themed", theme != nil)),
	)
	defer span.End()

	var (
		all []domain.Haiku
		err error
	)
	if theme != nil {
		all, err = repo.ListHaikusByTheme(ctx, s.DB, *theme)
	} else {
		all, err = repo.ListHaikus(ctx, s.DB)
	}
	if err != nil {
		return nil, s.fail(ctx, span, ctxLogger(ctx), LabelRandomHaiku, err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	pick := s.IntN
	if pick == nil {
		pick = rand.IntN
	}
	h := all[pick(len(all))]
	return &h, nil
}

// GetHaikuByID returns the haiku with id. A missing row is reported at warn
// level and returned as a KindNotFound Failure.
func (s *HaikuService) GetHaikuByID(ctx context.Context, id uint) (*domain.Haiku, error) {
	tr := otel.Tracer("services/HaikuService")
	ctx, span := tr.Start(ctx, "GetHaikuByID",
		trace.WithAttributes(attribute.Int64("haiku.id", int64(id))),
	)
	defer span.End()

	h, err := repo.GetHaiku(ctx, s.DB, id)
	if err == nil {
		return h, nil
	}

	label := fmt.Sprintf(LabelFetchHaikuFmt, id)
	if errors.Is(err, repo.ErrNotFound) {
		msg := fmt.Sprintf("haiku %d not found", id)
		s.Reporter.ReportWarn(ctx, ctxLogger(ctx), serviceHaiku, label, msg)
		return nil, &Failure{Kind: KindNotFound, Service: serviceHaiku, Label: label, Message: msg, Cause: err}
	}
	return nil, s.fail(ctx, span, ctxLogger(ctx), label, err)
}

// GetAllHaikus returns every haiku ordered by id.
func (s *HaikuService) GetAllHaikus(ctx context.Context) ([]domain.Haiku, error) {
	tr := otel.Tracer("services/HaikuService")
	ctx, span := tr.Start(ctx, "GetAllHaikus")
	defer span.End()

	out, err := repo.ListHaikus(ctx, s.DB)
	if err != nil {
		return nil, s.fail(ctx, span, ctxLogger(ctx), LabelListHaikus, err)
	}
	if out == nil {
		out = []domain.Haiku{}
	}
	return out, nil
}

// Stats returns the haiku count and greatest id, used for ETags.
func (s *HaikuService) Stats(ctx context.Context) (int64, uint, error) {
	return repo.HaikusStats(ctx, s.DB)
}

func (s *HaikuService) fail(ctx context.Context, span trace.Span, lg *zerolog.Logger, label string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, label)
	s.Reporter.Report(ctx, lg, serviceHaiku, label, err.Error())
	return &Failure{Kind: KindInternal, Service: serviceHaiku, Label: label, Message: err.Error(), Cause: err}
}
