package measure

import (
	"slices"

	"plantool/plan"
)

// RequiredCoverage splits a user's required benefits into those the plan covers
// and those it does not. Names keep the user's spelling and order; duplicates
// are looked up independently.
type RequiredCoverage struct {
	Covered []string
	Missing []string
}

func Required(p *plan.Plan, required []string) RequiredCoverage {
	var rc RequiredCoverage
	for _, name := range required {
		if b, ok := p.Benefit(name); ok && b.IsCovered() {
			rc.Covered = append(rc.Covered, name)
		} else {
			rc.Missing = append(rc.Missing, name)
		}
	}
	return rc
}

func (rc RequiredCoverage) Total() int { return len(rc.Covered) + len(rc.Missing) }

// Ratio is the covered fraction, or 1 when nothing is required.
func (rc RequiredCoverage) Ratio() float64 {
	if rc.Total() == 0 {
		return 1
	}
	return float64(len(rc.Covered)) / float64(rc.Total())
}

// ExcludedRequired counts required benefits, not listed in okToExclude, that the
// plan lists but does not cover. Benefits absent from the plan are not counted.
// The okToExclude comparison is on the raw names.
func ExcludedRequired(p *plan.Plan, required, okToExclude []string) int {
	n := 0
	for _, name := range required {
		if slices.Contains(okToExclude, name) {
			continue
		}
		if b, ok := p.Benefit(name); ok && !b.IsCovered() {
			n++
		}
	}
	return n
}

// EHBRatio is the share of the plan's benefits flagged EHB, 0 for an empty plan.
func EHBRatio(p *plan.Plan) float64 {
	if p.Len() == 0 {
		return 0
	}
	return float64(len(p.EHBBenefits())) / float64(p.Len())
}
