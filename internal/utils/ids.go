// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"strconv"
	"strings"
)

// ParseID parses a positive decimal record identifier such as a path
// parameter. Empty, signed, non-numeric, zero and out-of-range values are
// rejected.
//
// Example:
//
//	id, ok := utils.ParseID("42")  // 42, true
//	_, ok = utils.ParseID("0")     // false
//	_, ok = utils.ParseID("-3")    // false
func ParseID(s string) (uint, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// OptionalString returns nil for an empty s and a pointer to s, unchanged,
// otherwise. It maps absent path or query values to "not supplied";
// surrounding whitespace is part of a supplied value.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
