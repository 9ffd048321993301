package reasoning

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Style selects how verbose the explanation text is.
type Style string

const (
	Detailed Style = "detailed"
	Concise  Style = "concise"
)

func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", Detailed:
		return Detailed, nil
	case Concise:
		return Concise, nil
	}
	return "", fmt.Errorf("unknown explanation style %q", s)
}

var printer = message.NewPrinter(language.English)

// Dollars formats a whole-dollar amount with thousands separators, e.g. "$5,000".
func Dollars(v float64) string {
	return "$" + printer.Sprintf("%.0f", v)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// joinFirst joins up to n names and appends " and more" when some were left out.
func joinFirst(names []string, n int) string {
	s := strings.Join(names[:min(n, len(names))], ", ")
	if len(names) > n {
		s += " and more"
	}
	return s
}

func CoverageText(a CoverageAnalysis, style Style) string {
	if style == Concise {
		if a.RequiredTotal == 0 {
			return "Plan provides comprehensive coverage."
		}
		ratio := float64(a.RequiredCovered) / float64(a.RequiredTotal)
		return fmt.Sprintf("Plan covers %d/%d required benefits (%s).", a.RequiredCovered, a.RequiredTotal, percent(ratio))
	}

	var parts []string
	if a.RequiredTotal > 0 {
		if a.RequiredCovered == a.RequiredTotal {
			parts = append(parts, fmt.Sprintf("This plan covers all %d of your required benefits: %s.",
				a.RequiredTotal, joinFirst(a.Covered, 5)))
		} else {
			ratio := float64(a.RequiredCovered) / float64(a.RequiredTotal)
			parts = append(parts, fmt.Sprintf("This plan covers %d of %d required benefits (%s).",
				a.RequiredCovered, a.RequiredTotal, percent(ratio)))
			switch len(a.Missing) {
			case 0:
			case 1:
				parts = append(parts, fmt.Sprintf("Missing: %s.", a.Missing[0]))
			default:
				parts = append(parts, fmt.Sprintf("Missing benefits include: %s.", joinFirst(a.Missing, 3)))
			}
		}
	} else {
		parts = append(parts, fmt.Sprintf("This plan provides comprehensive coverage with %d total benefits available.", a.TotalBenefits))
	}

	if a.EHBCount > 0 {
		ratio := float64(a.EHBCount) / float64(max(a.TotalBenefits, 1))
		parts = append(parts, fmt.Sprintf("Plan includes %d Essential Health Benefits (%s of %d total benefits).",
			a.EHBCount, percent(ratio), a.TotalBenefits))
	}
	return strings.Join(parts, " ")
}

func CostText(a CostAnalysis, style Style) string {
	if style == Concise {
		if a.AvgCoinsurance != nil {
			return fmt.Sprintf("Average coinsurance: %.0f%%.", *a.AvgCoinsurance)
		}
		return fmt.Sprintf("Cost-sharing method: %s.", a.Method)
	}

	var parts []string
	switch a.Method {
	case MethodCopay:
		parts = append(parts, "This plan uses copay-based cost-sharing, providing predictable out-of-pocket costs for covered services.")
	case MethodCoinsurance:
		if a.AvgCoinsurance != nil {
			parts = append(parts, fmt.Sprintf("This plan uses coinsurance with a %s average rate of %.0f%% for covered services.",
				rateDescription(*a.AvgCoinsurance), *a.AvgCoinsurance))
		}
	default:
		parts = append(parts, "This plan uses a mixed cost-sharing approach, combining copays and coinsurance depending on the service type.")
	}

	if a.AnnualMaximum != nil {
		parts = append(parts, fmt.Sprintf("The annual maximum benefit is %s.", Dollars(*a.AnnualMaximum)))
	}

	if a.OutOfNetworkRate != nil {
		oon := *a.OutOfNetworkRate
		if a.AvgCoinsurance != nil && oon-*a.AvgCoinsurance > 10 {
			parts = append(parts, fmt.Sprintf("Out-of-network services have significantly higher coinsurance (%.0f%% vs %.0f%% in-network).",
				oon, *a.AvgCoinsurance))
		} else {
			parts = append(parts, fmt.Sprintf("Out-of-network coinsurance is %.0f%%.", oon))
		}
	}
	return strings.Join(parts, " ")
}

func rateDescription(rate float64) string {
	switch {
	case rate >= 20 && rate <= 40:
		return "moderate"
	case rate > 40:
		return "higher"
	}
	return "lower"
}

func LimitText(a LimitAnalysis, style Style) string {
	if style == Concise {
		if a.QuantityLimited == 0 && a.TimeLimited == 0 {
			return "No quantity or time limits on covered services."
		}
		return fmt.Sprintf("%d benefits have limits.", a.QuantityLimited+a.TimeLimited)
	}

	var parts []string
	if a.QuantityLimited == 0 && a.TimeLimited == 0 {
		parts = append(parts, "This plan has no quantity or time-based limits on covered services.")
	} else {
		var kinds []string
		if a.QuantityLimited > 0 {
			kinds = append(kinds, fmt.Sprintf("%d with quantity limits", a.QuantityLimited))
		}
		if a.TimeLimited > 0 {
			kinds = append(kinds, fmt.Sprintf("%d with time-based limits", a.TimeLimited))
		}
		parts = append(parts, fmt.Sprintf("This plan applies limits to %d benefit category types: %s.",
			len(kinds), strings.Join(kinds, ", ")))
	}

	switch n := len(a.Restrictive); {
	case n == 0:
	case n == 1:
		parts = append(parts, fmt.Sprintf("Note: %s has restrictive limits that may limit usage.", a.Restrictive[0]))
	case n <= 3:
		parts = append(parts, fmt.Sprintf("Note: Restrictive limits apply to %s.", strings.Join(a.Restrictive, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Note: Restrictive limits apply to %d benefits, including %s and others.",
			n, strings.Join(a.Restrictive[:2], ", ")))
	}
	return strings.Join(parts, " ")
}

func ExclusionText(a ExclusionAnalysis, style Style) string {
	if style == Concise {
		if a.WithExclusions == 0 {
			return "No significant exclusions or restrictions."
		}
		return fmt.Sprintf("%d benefit(s) have exclusions or restrictions.", a.WithExclusions)
	}

	if a.WithExclusions == 0 {
		return "This plan has minimal exclusions or restrictions on covered services."
	}
	var parts []string
	if a.WithExclusions == 1 {
		parts = append(parts, "One benefit category has exclusions or restrictions.")
	} else {
		parts = append(parts, fmt.Sprintf("%d benefit categories have exclusions or restrictions.", a.WithExclusions))
	}
	if a.Complex > 0 {
		parts = append(parts, fmt.Sprintf("%d of these have complex exclusions that may require detailed policy review to understand fully.", a.Complex))
	}
	if a.PriorCoverageRequired {
		parts = append(parts, "Some benefits require prior coverage history or have waiting periods before coverage begins.")
	}
	return strings.Join(parts, " ")
}
