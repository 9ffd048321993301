package plan

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName returns the lookup key for a benefit name: lowercased, every
// whitespace run collapsed to a single space, and trimmed.
//
//	"Basic  Dental\tCare - Adult " → "basic dental care - adult"
func NormalizeName(name string) string {
	// cases.Caser carries state; one per call keeps this safe for concurrent use.
	lower := cases.Lower(language.Und).String(name)
	return strings.Join(strings.Fields(lower), " ")
}
