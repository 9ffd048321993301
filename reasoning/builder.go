package reasoning

import (
	"fmt"
	"log/slog"

	"plantool/measure"
	"plantool/plan"
	"plantool/profile"
)

// Builder produces reasoning chains. It is safe for concurrent use.
type Builder struct {
	th     measure.Thresholds
	style  Style
	logger *slog.Logger
}

// NewBuilder returns a builder. Zero thresholds select the defaults and an
// empty style selects Detailed.
func NewBuilder(th measure.Thresholds, style Style, logger *slog.Logger) *Builder {
	if th == (measure.Thresholds{}) {
		th = measure.DefaultThresholds()
	}
	if style == "" {
		style = Detailed
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{th: th, style: style, logger: logger}
}

func (b *Builder) Style() Style { return b.style }

func (b *Builder) Build(p *plan.Plan, u *profile.UserProfile) Chain {
	covered := p.CoveredBenefits()
	c := Chain{
		Coverage:   analyzeCoverage(p, u),
		Cost:       analyzeCost(covered),
		Limits:     analyzeLimits(covered, b.th.RestrictiveLimitQty),
		Exclusions: analyzeExclusions(p.Benefits()),
	}
	c.Explanations = [4]string{
		CoverageText(c.Coverage, b.style),
		CostText(c.Cost, b.style),
		LimitText(c.Limits, b.style),
		ExclusionText(c.Exclusions, b.style),
	}
	c.TradeOffs = b.tradeOffs(c.Coverage, c.Cost)
	c.Strengths = b.strengths(u, c.Coverage, c.Cost)
	c.Weaknesses = b.weaknesses(c.Coverage, c.Cost, c.Limits)
	b.logger.Debug("reasoning built", "plan_id", p.PlanID,
		"strengths", len(c.Strengths), "weaknesses", len(c.Weaknesses), "trade_offs", len(c.TradeOffs))
	return c
}

func analyzeCoverage(p *plan.Plan, u *profile.UserProfile) CoverageAnalysis {
	rc := measure.Required(p, u.RequiredBenefits)
	return CoverageAnalysis{
		RequiredCovered: len(rc.Covered),
		RequiredTotal:   rc.Total(),
		EHBCount:        len(p.EHBBenefits()),
		TotalBenefits:   p.Len(),
		Missing:         rc.Missing,
		Covered:         rc.Covered,
	}
}

func analyzeCost(covered []plan.Benefit) CostAnalysis {
	counts := measure.CountCostSharing(covered)
	a := CostAnalysis{
		CopayAvailable: counts.Copay > 0,
		Method:         MethodMixed,
	}
	switch {
	case counts.Copay > counts.Coinsurance:
		a.Method = MethodCopay
	case counts.Coinsurance > counts.Copay:
		a.Method = MethodCoinsurance
	}
	if avg, ok := measure.AverageCoinsurance(covered, measure.InNetwork); ok {
		a.AvgCoinsurance = &avg
	}
	if avg, ok := measure.AverageCoinsurance(covered, measure.OutOfNetwork); ok {
		a.OutOfNetworkRate = &avg
	}
	if amount, ok := measure.AnnualMaximum(covered); ok {
		a.AnnualMaximum = &amount
	}
	return a
}

func analyzeLimits(covered []plan.Benefit, restrictiveQty float64) LimitAnalysis {
	counts := measure.CountLimits(covered)
	return LimitAnalysis{
		QuantityLimited: counts.Quantity,
		TimeLimited:     counts.Time,
		TotalCovered:    counts.Covered,
		Restrictive:     measure.RestrictiveLimits(covered, restrictiveQty),
	}
}

func analyzeExclusions(benefits []plan.Benefit) ExclusionAnalysis {
	texts := measure.ExclusionTexts(benefits)
	return ExclusionAnalysis{
		WithExclusions:        len(texts),
		Complex:               measure.ReviewComplexExclusion.Count(texts),
		PriorCoverageRequired: measure.ReviewPriorCoverage.Count(texts) > 0,
	}
}

func (b *Builder) tradeOffs(cov CoverageAnalysis, cost CostAnalysis) []TradeOff {
	var out []TradeOff
	if cost.AvgCoinsurance == nil {
		return out
	}
	avg := *cost.AvgCoinsurance
	if cov.RequiredCovered == cov.RequiredTotal && avg > b.th.HighCoinsurance {
		out = append(out, TradeOff{
			Aspect: "Coverage vs Cost",
			Pro:    "Covers all required benefits",
			Con:    fmt.Sprintf("Higher coinsurance rate (%.0f%%)", avg),
		})
	}
	if len(cov.Missing) > 0 && avg < b.th.LowCoinsurance {
		out = append(out, TradeOff{
			Aspect: "Cost vs Coverage",
			Pro:    fmt.Sprintf("Lower coinsurance rate (%.0f%%)", avg),
			Con:    fmt.Sprintf("Missing %d required benefit(s)", len(cov.Missing)),
		})
	}
	return out
}

func (b *Builder) strengths(u *profile.UserProfile, cov CoverageAnalysis, cost CostAnalysis) []string {
	var out []string
	if cov.RequiredTotal > 0 && cov.RequiredCovered == cov.RequiredTotal {
		out = append(out, fmt.Sprintf("Covers all %d required benefits", cov.RequiredTotal))
	}
	if cost.AnnualMaximum != nil && *cost.AnnualMaximum >= b.th.GenerousAnnualMax {
		out = append(out, fmt.Sprintf("Generous annual maximum (%s)", Dollars(*cost.AnnualMaximum)))
	}
	if cost.CopayAvailable && u.PreferredCostSharing == profile.PreferCopay {
		out = append(out, "Uses copay-based cost-sharing (matches preference)")
	}
	if cov.EHBCount > 0 {
		out = append(out, fmt.Sprintf("Includes %d Essential Health Benefits", cov.EHBCount))
	}
	return out
}

func (b *Builder) weaknesses(cov CoverageAnalysis, cost CostAnalysis, lim LimitAnalysis) []string {
	var out []string
	switch len(cov.Missing) {
	case 0:
	case 1:
		out = append(out, "Missing required benefit: "+cov.Missing[0])
	default:
		out = append(out, fmt.Sprintf("Missing %d required benefits", len(cov.Missing)))
	}
	if cost.AvgCoinsurance != nil && *cost.AvgCoinsurance > b.th.HighCoinsurance {
		out = append(out, fmt.Sprintf("High coinsurance rate (%.0f%%)", *cost.AvgCoinsurance))
	}
	if len(lim.Restrictive) > 0 {
		out = append(out, fmt.Sprintf("Restrictive limits on %d benefit(s)", len(lim.Restrictive)))
	}
	if cost.AnnualMaximum != nil && *cost.AnnualMaximum < b.th.LowAnnualMax {
		out = append(out, fmt.Sprintf("Low annual maximum (%s)", Dollars(*cost.AnnualMaximum)))
	}
	return out
}
