package measure

import "plantool/plan"

// HasTimeLimit reports whether the benefit's limit unit is per period or per event.
func HasTimeLimit(b *plan.Benefit) bool {
	return b.LimitUnit != nil && TimeUnits.Match(*b.LimitUnit)
}

// LimitCounts tallies limits over covered benefits.
type LimitCounts struct {
	Covered  int
	Quantity int
	Time     int
}

func CountLimits(benefits []plan.Benefit) LimitCounts {
	var c LimitCounts
	for i := range benefits {
		b := &benefits[i]
		if !b.IsCovered() {
			continue
		}
		c.Covered++
		if b.HasQuantityLimit() {
			c.Quantity++
		}
		if HasTimeLimit(b) {
			c.Time++
		}
	}
	return c
}

// RestrictiveLimits lists covered benefits whose limit quantity is at or below
// maxQty. A benefit is listed once for a quantity limit and once more for a
// time limit, so a name can appear twice.
func RestrictiveLimits(benefits []plan.Benefit, maxQty float64) []string {
	var out []string
	low := func(b *plan.Benefit) bool { return b.LimitQty != nil && *b.LimitQty <= maxQty }
	for i := range benefits {
		b := &benefits[i]
		if !b.IsCovered() {
			continue
		}
		if b.HasQuantityLimit() && low(b) {
			out = append(out, b.Name)
		}
		if HasTimeLimit(b) && low(b) {
			out = append(out, b.Name)
		}
	}
	return out
}

// ExclusionTexts returns the non-empty exclusions text of each benefit that has one.
func ExclusionTexts(benefits []plan.Benefit) []string {
	var out []string
	for i := range benefits {
		if t := plan.Text(benefits[i].Exclusions); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// MatchShare returns the fraction of n items counted as matching; ok is false when n is 0.
func MatchShare(matches, n int) (float64, bool) {
	if n == 0 {
		return 0, false
	}
	return float64(matches) / float64(n), true
}
