// Package geo resolves a client IP address to an ISO 3166-1 alpha-2 country
// code through an external HTTP lookup service, and maps codes to canonical
// English country names from a local table.
//
// The lookup service is expected to answer GET {baseURL}/{ip} with a JSON
// body carrying the code at a configurable gjson path (for
// https://api.country.is that is "country").
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Lookup errors.
var (
	// ErrLookupStatus is returned when the lookup service answers non-2xx.
	ErrLookupStatus = errors.New("geo lookup: unexpected status")

	// ErrNoCountry is returned when the response body lacks the country field
	// or is not valid JSON.
	ErrNoCountry = errors.New("geo lookup: country field missing")
)

// maxBody caps how much of a lookup response is read.
const maxBody = 64 << 10

// Lookuper maps an IP address to an ISO alpha-2 country code.
type Lookuper interface {
	LookupCountryCode(ctx context.Context, ip string) (string, error)
}

// Client is the HTTP implementation of Lookuper.
type Client struct {
	BaseURL      string
	CountryField string
	HTTP         *http.Client
}

// NewClient returns a Client with a per-request timeout.
func NewClient(baseURL, countryField string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		CountryField: countryField,
		HTTP:         &http.Client{Timeout: timeout},
	}
}

// LookupCountryCode performs one GET {BaseURL}/{ip} and returns the upper-cased
// code found at CountryField. Transport errors, non-2xx statuses and a missing
// or empty field are all errors; there is no retry.
func (c *Client) LookupCountryCode(ctx context.Context, ip string) (string, error) {
	endpoint := c.BaseURL + "/" + url.PathEscape(ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("geo lookup: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo lookup: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("geo lookup: read body: %w", err)
	}
	log.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("geo lookup")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrLookupStatus, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return "", ErrNoCountry
	}
	code := strings.TrimSpace(gjson.GetBytes(body, c.CountryField).String())
	if code == "" {
		return "", ErrNoCountry
	}
	return strings.ToUpper(code), nil
}
