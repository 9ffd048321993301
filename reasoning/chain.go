// Package reasoning explains a plan's fit: factual analyses per dimension,
// generated explanation text, trade-offs, strengths and weaknesses.
package reasoning

type CoverageAnalysis struct {
	RequiredCovered int      `json:"required_benefits_covered"`
	RequiredTotal   int      `json:"required_benefits_total"`
	EHBCount        int      `json:"ehb_benefits_count"`
	TotalBenefits   int      `json:"total_benefits_count"`
	Missing         []string `json:"missing_benefits"`
	Covered         []string `json:"covered_benefits"`
}

// CostMethod is the dominant cost-sharing method among covered benefits.
type CostMethod string

const (
	MethodCopay       CostMethod = "copay"
	MethodCoinsurance CostMethod = "coinsurance"
	MethodMixed       CostMethod = "mixed"
)

// CostAnalysis summarizes covered benefits. Nil pointers mean no data.
type CostAnalysis struct {
	AvgCoinsurance   *float64   `json:"avg_coinsurance_rate"`
	CopayAvailable   bool       `json:"copay_available"`
	AnnualMaximum    *float64   `json:"annual_maximum"`
	OutOfNetworkRate *float64   `json:"out_of_network_rate"`
	Method           CostMethod `json:"cost_sharing_method"`
}

type LimitAnalysis struct {
	QuantityLimited int `json:"benefits_with_quantity_limits"`
	TimeLimited     int `json:"benefits_with_time_limits"`
	TotalCovered    int `json:"total_covered_benefits"`
	// Restrictive may name a benefit twice: once per kind of limit.
	Restrictive []string `json:"restrictive_limits"`
}

type ExclusionAnalysis struct {
	WithExclusions        int  `json:"benefits_with_exclusions"`
	Complex               int  `json:"complex_exclusions"`
	PriorCoverageRequired bool `json:"prior_coverage_required"`
}

type TradeOff struct {
	Aspect string `json:"aspect"`
	Pro    string `json:"pro"`
	Con    string `json:"con"`
}

// Chain is the full reasoning for one plan. Explanations holds the coverage,
// cost, limit and exclusion text in that order.
type Chain struct {
	Coverage     CoverageAnalysis  `json:"coverage_analysis"`
	Cost         CostAnalysis      `json:"cost_analysis"`
	Limits       LimitAnalysis     `json:"limit_analysis"`
	Exclusions   ExclusionAnalysis `json:"exclusion_analysis"`
	Explanations [4]string         `json:"explanations"`
	TradeOffs    []TradeOff        `json:"trade_offs"`
	Strengths    []string          `json:"strengths"`
	Weaknesses   []string          `json:"weaknesses"`
}
