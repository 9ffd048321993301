package agent

import (
	"plantool/measure"
	"plantool/plan"
	"plantool/profile"
)

const (
	coverageRequiredWeight = 0.4
	coverageEHBWeight      = 0.2
	coverageBreadthWeight  = 0.2
	coveragePenaltyWeight  = 0.2
)

// Coverage scores how well a plan covers what the user needs.
type Coverage struct {
	opts Options
}

func NewCoverage(opts Options) *Coverage {
	return &Coverage{opts: opts.withDefaults()}
}

func (a *Coverage) Name() string { return "coverage" }

func (a *Coverage) Score(p *plan.Plan, u *profile.UserProfile) float64 {
	return a.opts.Clamp(a.Name(), p.PlanID, weighted(a.SubScores(p, u)))
}

func (a *Coverage) SubScores(p *plan.Plan, u *profile.UserProfile) []SubScore {
	breadth := min(1.0, float64(len(p.CoveredBenefits()))/a.opts.Thresholds.BreadthSaturation)
	return []SubScore{
		{Name: "required_ratio", Weight: coverageRequiredWeight, Value: measure.Required(p, u.RequiredBenefits).Ratio()},
		{Name: "ehb_ratio", Weight: coverageEHBWeight, Value: measure.EHBRatio(p)},
		{Name: "breadth", Weight: coverageBreadthWeight, Value: breadth},
		{Name: "exclusion_penalty", Weight: coveragePenaltyWeight, Value: exclusionPenalty(p, u)},
	}
}

// exclusionPenalty is 1 whenever the user listed nothing as OK to exclude,
// regardless of missing required benefits. Only when that list is non-empty
// are required benefits the plan lists as not covered penalized.
func exclusionPenalty(p *plan.Plan, u *profile.UserProfile) float64 {
	if len(u.ExcludedBenefitsOK) == 0 {
		return 1
	}
	if len(u.RequiredBenefits) == 0 {
		return 1
	}
	n := measure.ExcludedRequired(p, u.RequiredBenefits, u.ExcludedBenefitsOK)
	return max(0, 1-float64(n)/float64(len(u.RequiredBenefits)))
}
