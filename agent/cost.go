package agent

import (
	"plantool/measure"
	"plantool/plan"
	"plantool/profile"
)

const (
	costAlignmentWeight    = 0.3
	costInNetworkWeight    = 0.3
	costAnnualMaxWeight    = 0.2
	costOutOfNetworkWeight = 0.2

	neutral = 0.5
)

// Cost scores cost-sharing: preference fit, coinsurance rates and annual maximum.
type Cost struct {
	opts Options
}

func NewCost(opts Options) *Cost {
	return &Cost{opts: opts.withDefaults()}
}

func (a *Cost) Name() string { return "cost" }

func (a *Cost) Score(p *plan.Plan, u *profile.UserProfile) float64 {
	return a.opts.Clamp(a.Name(), p.PlanID, weighted(a.SubScores(p, u)))
}

func (a *Cost) SubScores(p *plan.Plan, u *profile.UserProfile) []SubScore {
	benefits := p.Benefits()
	return []SubScore{
		{Name: "preference_alignment", Weight: costAlignmentWeight, Value: a.alignment(benefits, u.PreferredCostSharing)},
		{Name: "in_network_rate", Weight: costInNetworkWeight, Value: a.rateScore(benefits, measure.InNetwork)},
		{Name: "annual_maximum", Weight: costAnnualMaxWeight, Value: a.annualMaxScore(benefits)},
		{Name: "out_of_network_rate", Weight: costOutOfNetworkWeight, Value: a.rateScore(benefits, measure.OutOfNetwork)},
	}
}

// alignment looks only at the first few benefits in insertion order.
func (a *Cost) alignment(benefits []plan.Benefit, pref profile.CostSharing) float64 {
	if pref == profile.PreferEither {
		return 1
	}
	sample := benefits[:min(len(benefits), max(0, a.opts.Thresholds.CostSampleSize))]
	if len(sample) == 0 {
		return neutral
	}
	c := measure.CountCostSharing(sample)
	total := c.Copay + c.Coinsurance
	if total == 0 {
		return neutral
	}
	copayRatio := float64(c.Copay) / float64(total)
	if pref == profile.PreferCopay {
		return copayRatio
	}
	return 1 - copayRatio
}

func (a *Cost) rateScore(benefits []plan.Benefit, tier measure.Tier) float64 {
	avg, ok := measure.AverageCoinsurance(benefits, tier)
	if !ok {
		return neutral
	}
	return a.opts.Thresholds.RateScore(avg)
}

func (a *Cost) annualMaxScore(benefits []plan.Benefit) float64 {
	amount, ok := measure.AnnualMaximum(benefits)
	if !ok {
		return neutral
	}
	return a.opts.Thresholds.AnnualMaxScore(amount)
}
