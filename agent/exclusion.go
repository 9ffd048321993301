package agent

import (
	"plantool/measure"
	"plantool/plan"
	"plantool/profile"
)

const (
	exclusionComplexityWeight = 0.7
	exclusionPriorWeight      = 0.3
)

// Exclusion scores how simple and unconditional a plan's exclusions are.
type Exclusion struct {
	opts Options
}

func NewExclusion(opts Options) *Exclusion {
	return &Exclusion{opts: opts.withDefaults()}
}

func (a *Exclusion) Name() string { return "exclusion" }

func (a *Exclusion) Score(p *plan.Plan, u *profile.UserProfile) float64 {
	return a.opts.Clamp(a.Name(), p.PlanID, weighted(a.SubScores(p, u)))
}

func (a *Exclusion) SubScores(p *plan.Plan, _ *profile.UserProfile) []SubScore {
	benefits := p.Benefits()
	texts := measure.ExclusionTexts(benefits)

	// Complexity is measured among benefits that have exclusions text at all;
	// prior coverage over every benefit.
	complexity := 1.0
	if share, ok := measure.MatchShare(measure.ComplexExclusion.Count(texts), len(texts)); ok {
		complexity = measure.Clamp01(1 - share)
	}
	prior := 1.0
	if share, ok := measure.MatchShare(measure.PriorCoverage.Count(texts), len(benefits)); ok {
		prior = measure.Clamp01(1 - share)
	}

	return []SubScore{
		{Name: "complexity", Weight: exclusionComplexityWeight, Value: complexity},
		{Name: "prior_coverage", Weight: exclusionPriorWeight, Value: prior},
	}
}
