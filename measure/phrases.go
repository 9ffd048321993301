package measure

import "strings"

// CaseMode says how a PhraseSet compares its phrases against text.
type CaseMode int

const (
	// ExactCase requires the phrase to appear with the same letter case.
	ExactCase CaseMode = iota
	// IgnoreCase lowercases the text before matching; phrases are stored lowercase.
	IgnoreCase
)

// PhraseSet is a named list of substrings with a fixed case policy.
type PhraseSet struct {
	Name    string
	Mode    CaseMode
	Phrases []string
}

// Match reports whether text contains any phrase of the set.
func (s PhraseSet) Match(text string) bool {
	if text == "" {
		return false
	}
	if s.Mode == IgnoreCase {
		text = strings.ToLower(text)
	}
	for _, p := range s.Phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Count returns how many texts match the set.
func (s PhraseSet) Count(texts []string) int {
	n := 0
	for _, t := range texts {
		if s.Match(t) {
			n++
		}
	}
	return n
}

var (
	// NotApplicable marks a cost-sharing cell that carries no rate.
	NotApplicable = PhraseSet{
		Name:    "not_applicable",
		Mode:    ExactCase,
		Phrases: []string{"Not Applicable", "Not Covered"},
	}

	// NoCharge lists the two spellings seen in the source data. "NO CHARGE" does not match.
	NoCharge = PhraseSet{
		Name:    "no_charge",
		Mode:    ExactCase,
		Phrases: []string{"No Charge", "No charge"},
	}

	// TimeUnits marks a limit unit that restricts use per period or per event.
	TimeUnits = PhraseSet{
		Name:    "time_units",
		Mode:    IgnoreCase,
		Phrases: []string{"year", "month", "day", "visit", "occurrence"},
	}

	WaitingPeriod = PhraseSet{
		Name:    "waiting_period",
		Mode:    IgnoreCase,
		Phrases: []string{"waiting period", "exclusion period", "must wait", "not covered for", "excluded for"},
	}

	// ComplexExclusion is used for scoring.
	ComplexExclusion = PhraseSet{
		Name:    "complex_exclusion",
		Mode:    IgnoreCase,
		Phrases: []string{"see policy", "see contract", "subject to", "may be excluded", "varies by", "consult"},
	}

	// PriorCoverage is used for scoring.
	PriorCoverage = PhraseSet{
		Name:    "prior_coverage",
		Mode:    IgnoreCase,
		Phrases: []string{"prior coverage", "previous coverage", "must have had", "continuous coverage", "preexisting"},
	}

	// ReviewComplexExclusion is the narrower list the reasoning output reports on.
	ReviewComplexExclusion = PhraseSet{
		Name:    "review_complex_exclusion",
		Mode:    IgnoreCase,
		Phrases: []string{"see policy", "see contract", "subject to", "may be excluded"},
	}

	// ReviewPriorCoverage is the narrower list the reasoning output reports on.
	ReviewPriorCoverage = PhraseSet{
		Name:    "review_prior_coverage",
		Mode:    IgnoreCase,
		Phrases: []string{"prior coverage", "previous coverage", "must have had", "continuous coverage"},
	}
)
