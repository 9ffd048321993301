package measure

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"plantool/plan"
)

// ParseCoinsurance extracts a coinsurance percentage from a free-text cell.
//
//	"20% Coinsurance after deductible" → 20, true
//	"No Charge"                        → 0, true
//	"Not Applicable", "$25", nil       → 0, false
//	"NaN%", "Inf%"                     → 0, false
func ParseCoinsurance(v *string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	s := *v
	if NotApplicable.Match(s) {
		return 0, false
	}
	if i := strings.IndexByte(s, '%'); i >= 0 {
		rate, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
		if err != nil || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return 0, false
		}
		return rate, true
	}
	if NoCharge.Match(s) {
		return 0, true
	}
	return 0, false
}

// HasCopay reports whether a copay cell holds an actual copay. Only the exact
// marker values are rejected; "Not Applicable after deductible" counts as a copay.
func HasCopay(v *string) bool {
	if v == nil || *v == "" {
		return false
	}
	return *v != "Not Applicable" && *v != "Not Covered"
}

// CostSharing counts, over covered benefits, cells with a copay and cells with a
// parseable in-network coinsurance rate.
type CostSharing struct {
	Copay       int
	Coinsurance int
}

func CountCostSharing(benefits []plan.Benefit) CostSharing {
	var c CostSharing
	for i := range benefits {
		b := &benefits[i]
		if !b.IsCovered() {
			continue
		}
		if HasCopay(b.CopayInnTier1) {
			c.Copay++
		}
		if _, ok := ParseCoinsurance(b.CoinsInnTier1); ok {
			c.Coinsurance++
		}
	}
	return c
}

// Tier selects a coinsurance column.
type Tier int

const (
	InNetwork Tier = iota
	OutOfNetwork
)

func (t Tier) cell(b *plan.Benefit) *string {
	if t == OutOfNetwork {
		return b.CoinsOutOfNet
	}
	return b.CoinsInnTier1
}

// AverageCoinsurance averages the parseable rates of covered benefits for a tier.
func AverageCoinsurance(benefits []plan.Benefit, tier Tier) (float64, bool) {
	var sum float64
	var n int
	for i := range benefits {
		b := &benefits[i]
		if !b.IsCovered() {
			continue
		}
		if rate, ok := ParseCoinsurance(tier.cell(b)); ok {
			sum += rate
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

var dollarPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$([\d,]+)`),
	regexp.MustCompile(`(?i)([\d,]+)\s*dollars?`),
}

// DollarAmounts returns every positive dollar amount mentioned in text.
func DollarAmounts(text string) []float64 {
	var out []float64
	for _, re := range dollarPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			digits := strings.ReplaceAll(m[1], ",", "")
			if digits == "" {
				continue
			}
			amount, err := strconv.ParseFloat(digits, 64)
			if err != nil || amount <= 0 {
				continue
			}
			out = append(out, amount)
		}
	}
	return out
}

// AnnualMaximum returns the largest dollar amount found in the explanation
// text of the given benefits.
func AnnualMaximum(benefits []plan.Benefit) (float64, bool) {
	var best float64
	found := false
	for i := range benefits {
		for _, amount := range DollarAmounts(plan.Text(benefits[i].Explanation)) {
			if !found || amount > best {
				best = amount
				found = true
			}
		}
	}
	return best, found
}
