package agent

import (
	"plantool/measure"
	"plantool/plan"
	"plantool/profile"
)

const (
	limitQuantityWeight = 0.4
	limitTimeWeight     = 0.3
	limitWaitingWeight  = 0.3
)

// Limit scores how few quantity, time and waiting-period limits a plan has.
type Limit struct {
	opts Options
}

func NewLimit(opts Options) *Limit {
	return &Limit{opts: opts.withDefaults()}
}

func (a *Limit) Name() string { return "limit" }

func (a *Limit) Score(p *plan.Plan, u *profile.UserProfile) float64 {
	return a.opts.Clamp(a.Name(), p.PlanID, weighted(a.SubScores(p, u)))
}

func (a *Limit) SubScores(p *plan.Plan, u *profile.UserProfile) []SubScore {
	benefits := p.Benefits()
	counts := measure.CountLimits(benefits)
	factor := usageFactor(u.ExpectedUsage)

	absence := func(limited int) float64 {
		share, ok := measure.MatchShare(limited, counts.Covered)
		if !ok {
			return neutral
		}
		return measure.Clamp01((1 - share) * factor)
	}

	waiting := 1.0
	if share, ok := measure.MatchShare(measure.WaitingPeriod.Count(measure.ExclusionTexts(benefits)), len(benefits)); ok {
		waiting = measure.Clamp01(1 - share)
	}

	return []SubScore{
		{Name: "quantity_limits", Weight: limitQuantityWeight, Value: absence(counts.Quantity)},
		{Name: "time_limits", Weight: limitTimeWeight, Value: absence(counts.Time)},
		{Name: "waiting_periods", Weight: limitWaitingWeight, Value: waiting},
	}
}

// usageFactor discounts the limit scores for users who expect to hit limits.
func usageFactor(u profile.Usage) float64 {
	switch u {
	case profile.UsageHigh:
		return 0.8
	case profile.UsageMedium:
		return 0.9
	}
	return 1
}
