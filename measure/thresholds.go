package measure

import (
	"fmt"
	"math"
)

// Thresholds holds the fixed normalization points used by scoring and reasoning.
type Thresholds struct {
	// BreadthSaturation is the covered-benefit count that earns a full breadth score.
	BreadthSaturation float64 `yaml:"breadth_saturation"`
	// CoinsuranceCeiling is the rate (percent) at or above which a coinsurance score is 0.
	CoinsuranceCeiling float64 `yaml:"coinsurance_ceiling"`
	// AnnualMaxSaturation is the dollar amount that earns a full annual-maximum score.
	AnnualMaxSaturation float64 `yaml:"annual_max_saturation"`
	GenerousAnnualMax   float64 `yaml:"generous_annual_max"`
	LowAnnualMax        float64 `yaml:"low_annual_max"`
	HighCoinsurance     float64 `yaml:"high_coinsurance"`
	LowCoinsurance      float64 `yaml:"low_coinsurance"`
	// RestrictiveLimitQty is the largest limit quantity still reported as restrictive.
	RestrictiveLimitQty float64 `yaml:"restrictive_limit_qty"`
	// CostSampleSize is how many leading benefits the preference alignment inspects.
	CostSampleSize int `yaml:"cost_sample_size"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		BreadthSaturation:   20,
		CoinsuranceCeiling:  50,
		AnnualMaxSaturation: 5000,
		GenerousAnnualMax:   3000,
		LowAnnualMax:        1000,
		HighCoinsurance:     40,
		LowCoinsurance:      30,
		RestrictiveLimitQty: 2,
		CostSampleSize:      5,
	}
}

func (t Thresholds) Validate() error {
	if t.BreadthSaturation <= 0 {
		return fmt.Errorf("breadth_saturation must be positive")
	}
	if t.CoinsuranceCeiling <= 0 {
		return fmt.Errorf("coinsurance_ceiling must be positive")
	}
	if t.AnnualMaxSaturation <= 0 {
		return fmt.Errorf("annual_max_saturation must be positive")
	}
	if t.CostSampleSize < 1 {
		return fmt.Errorf("cost_sample_size must be at least 1")
	}
	return nil
}

// RateScore maps an average coinsurance rate onto [0,1]: 0% scores 1, the
// ceiling and anything above scores 0.
func (t Thresholds) RateScore(avg float64) float64 {
	if avg <= 0 {
		return 1
	}
	if avg >= t.CoinsuranceCeiling {
		return 0
	}
	return Clamp01(1 - avg/t.CoinsuranceCeiling)
}

// AnnualMaxScore maps a dollar amount onto [0,1].
func (t Thresholds) AnnualMaxScore(amount float64) float64 {
	if amount >= t.AnnualMaxSaturation {
		return 1
	}
	if amount <= 0 {
		return 0
	}
	return Clamp01(amount / t.AnnualMaxSaturation)
}

// Clamp01 bounds v to [0,1]. NaN maps to 1.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 1
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
