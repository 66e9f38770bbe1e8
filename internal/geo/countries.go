package geo

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnknownCode is returned by CountryName for codes that do not name a
// country in the local table.
var ErrUnknownCode = errors.New("unknown country code")

var regionNames = display.English.Regions()

// CountryName returns the canonical English name and canonical alpha-2 code
// for an ISO 3166-1 alpha-2 country code. Lookup is local, case-insensitive
// and never touches the network. Grouping regions such as "EU" or "UN" are
// rejected along with malformed and unassigned codes.
func CountryName(code string) (name, abbr string, err error) {
	code = strings.TrimSpace(code)
	if len(code) != 2 || !isASCIILetters(code) {
		return "", "", ErrUnknownCode
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", "", ErrUnknownCode
	}
	name = regionNames.Name(region)
	if name == "" || strings.EqualFold(name, "Unknown Region") {
		return "", "", ErrUnknownCode
	}
	return name, region.String(), nil
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i] | 0x20
		if b < 'a' || b > 'z' {
			return false
		}
	}
	return true
}
