// Package utils provides small, generic helpers independent of the domain.
package utils

import "strconv"

// AtoiDefault converts s to an int, returning def when s is empty or not
// a valid integer. Used for query-parameter parsing where a bad value
// should degrade to the default rather than error.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
