package normalize

import "strings"

// Email returns a normalized form of an email address suitable for
// storage and comparisons. Normalization currently trims surrounding
// whitespace and lower-cases the address.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Text trims surrounding whitespace from free-form user input
// (titles, bodies, display names).
func Text(s string) string {
	return strings.TrimSpace(s)
}

// EmailLocalPart returns the part of an email address before the '@'.
// Registration uses it as the default display name.
func EmailLocalPart(e string) string {
	e = Email(e)
	if i := strings.IndexByte(e, '@'); i >= 0 {
		return e[:i]
	}
	return e
}
