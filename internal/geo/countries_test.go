package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryName_Known(t *testing.T) {
	cases := map[string][2]string{
		"US": {"United States", "US"},
		"gr": {"Greece", "GR"},
		"JP": {"Japan", "JP"},
		"de": {"Germany", "DE"},
	}
	for in, want := range cases {
		name, abbr, err := CountryName(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want[0], name, in)
			assert.Equal(t, want[1], abbr, in)
		}
	}
}

func TestCountryName_Unknown(t *testing.T) {
	for _, in := range []string{"", "U", "USA", "1A", "ZZ", "XX", "é1"} {
		_, _, err := CountryName(in)
		assert.ErrorIs(t, err, ErrUnknownCode, "code %q", in)
	}
}

func TestIsLoopback(t *testing.T) {
	for _, ip := range []string{"127.0.0.1", "127.10.0.3", "::1", "localhost", "::ffff:127.0.0.1"} {
		assert.True(t, IsLoopback(ip), ip)
	}
	for _, ip := range []string{"8.8.8.8", "10.0.0.1", "", "not-an-ip", "2001:db8::1"} {
		assert.False(t, IsLoopback(ip), ip)
	}
}
