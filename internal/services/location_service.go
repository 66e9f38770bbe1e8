// Package services – LocationService
//
// LocationService maps a client IP to a persisted country. The IP is looked up
// through a geo.Lookuper, the ISO code is translated to a canonical name from
// a local table, and the country row is found or created by that name.
// Failures are reported once and returned as a *Failure.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-haiku-backend/internal/domain"
	"github.com/tbourn/go-haiku-backend/internal/geo"
	"github.com/tbourn/go-haiku-backend/internal/repo"
)

// DefaultFallbackIP stands in for loopback clients so local traffic still
// resolves to a real country. It is not production geolocation.
const DefaultFallbackIP = "8.8.8.8"

// RequestContext is the slice of an inbound request the core needs.
type RequestContext interface {
	// ClientIP returns the caller's address, or false when unknown.
	ClientIP() (string, bool)
}

// StaticIP is a RequestContext with a fixed address. The empty value has no IP.
type StaticIP string

// ClientIP implements RequestContext.
func (s StaticIP) ClientIP() (string, bool) { return string(s), s != "" }

// LocationService resolves request countries.
type LocationService struct {
	DB         *gorm.DB
	Lookup     geo.Lookuper
	Reporter   *LoggingService
	FallbackIP string
}

// NewLocationService wires a LocationService; an empty fallbackIP selects
// DefaultFallbackIP.
func NewLocationService(db *gorm.DB, lookup geo.Lookuper, reporter *LoggingService, fallbackIP string) *LocationService {
	if fallbackIP == "" {
		fallbackIP = DefaultFallbackIP
	}
	return &LocationService{DB: db, Lookup: lookup, Reporter: reporter, FallbackIP: fallbackIP}
}

// ResolveCountry returns the country for rc's client IP. An absent IP yields
// (nil, nil) without any external call. Lookup failures, unmapped codes and
// store errors are hard errors.
func (s *LocationService) ResolveCountry(ctx context.Context, rc RequestContext) (*domain.Country, error) {
	tr := otel.Tracer("services/LocationService")
	ctx, span := tr.Start(ctx, "ResolveCountry")
	defer span.End()

	var (
		ip string
		ok bool
	)
	if rc != nil {
		ip, ok = rc.ClientIP()
	}
	if !ok || ip == "" {
		countryLookups.WithLabelValues("absent").Inc()
		return nil, nil
	}
	if geo.IsLoopback(ip) {
		ip = s.FallbackIP
	}
	span.SetAttributes(attribute.String("client.ip", ip))

	lg := ctxLogger(ctx)

	code, err := s.Lookup.LookupCountryCode(ctx, ip)
	if err != nil {
		return nil, s.fail(ctx, span, lg, fmt.Sprintf(LabelCountryFromIP, ip), err)
	}
	name, abbr, err := geo.CountryName(code)
	if err != nil {
		return nil, s.fail(ctx, span, lg, fmt.Sprintf(LabelCountryFromIP, ip), fmt.Errorf("%w: %q", err, code))
	}
	span.SetAttributes(attribute.String("country.abbr", abbr))

	c, created, err := s.findOrCreate(ctx, name, abbr)
	if err != nil {
		return nil, s.fail(ctx, span, lg, fmt.Sprintf(LabelCountryRecord, name), err)
	}
	if created {
		countryLookups.WithLabelValues("created").Inc()
	} else {
		countryLookups.WithLabelValues("found").Inc()
	}
	return c, nil
}

// findOrCreate looks the country up by name and inserts it when missing. A
// unique-name conflict on insert means a concurrent request created it first,
// so the lookup is repeated.
func (s *LocationService) findOrCreate(ctx context.Context, name, abbr string) (*domain.Country, bool, error) {
	c, err := repo.FindCountryByName(ctx, s.DB, name)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	c, err = repo.CreateCountry(ctx, s.DB, name, abbr)
	switch {
	case err == nil:
		return c, true, nil
	case errors.Is(err, repo.ErrDuplicate):
		c, err = repo.FindCountryByName(ctx, s.DB, name)
		if err != nil {
			return nil, false, err
		}
		return c, false, nil
	default:
		return nil, false, err
	}
}

func (s *LocationService) fail(ctx context.Context, span trace.Span, lg *zerolog.Logger, label string, err error) error {
	countryLookups.WithLabelValues("error").Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, label)
	s.Reporter.Report(ctx, lg, serviceLocation, label, err.Error())
	return &Failure{Kind: KindInternal, Service: serviceLocation, Label: label, Message: err.Error(), Cause: err}
}
