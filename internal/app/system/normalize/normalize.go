// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-supplied values before they are
// stored or used in filters.
package normalize

import "strings"

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Grade trims and upper-cases a letter grade ("b+" -> "B+").
func Grade(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Code trims and upper-cases course codes and department short names.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a raw query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
