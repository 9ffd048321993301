// Package profile describes the person a plan is being chosen for: family
// composition, expected usage, required benefits, preferences and priorities.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Usage is the expected level of healthcare use.
type Usage string

const (
	UsageLow    Usage = "Low"
	UsageMedium Usage = "Medium"
	UsageHigh   Usage = "High"
)

// ParseUsage accepts any letter case.
func ParseUsage(s string) (Usage, error) {
	for _, u := range []Usage{UsageLow, UsageMedium, UsageHigh} {
		if strings.EqualFold(strings.TrimSpace(s), string(u)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("invalid expected usage %q", s)
}

// CostSharing is the preferred cost-sharing method.
type CostSharing string

const (
	PreferCopay       CostSharing = "Copay"
	PreferCoinsurance CostSharing = "Coinsurance"
	PreferEither      CostSharing = "Either"
)

func ParseCostSharing(s string) (CostSharing, error) {
	for _, c := range []CostSharing{PreferCopay, PreferCoinsurance, PreferEither} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid cost sharing preference %q", s)
}

// BudgetConstraints are optional dollar caps. They steer priority selection only.
type BudgetConstraints struct {
	MaxMonthlyPremium    *float64 `yaml:"max_monthly_premium,omitempty" json:"max_monthly_premium,omitempty"`
	MaxAnnualOutOfPocket *float64 `yaml:"max_annual_out_of_pocket,omitempty" json:"max_annual_out_of_pocket,omitempty"`
	MaxCopayPerVisit     *float64 `yaml:"max_copay_per_visit,omitempty" json:"max_copay_per_visit,omitempty"`
}

func (b *BudgetConstraints) Validate() error {
	check := func(name string, v *float64) error {
		if v != nil && *v < 0 {
			return &ValidationError{Field: name, Msg: fmt.Sprintf("must be non-negative, got %g", *v)}
		}
		return nil
	}
	return errors.Join(
		check("max_monthly_premium", b.MaxMonthlyPremium),
		check("max_annual_out_of_pocket", b.MaxAnnualOutOfPocket),
		check("max_copay_per_visit", b.MaxCopayPerVisit),
	)
}

// UserProfile is a validated description of the user. Build one with New or a
// builder in this package.
type UserProfile struct {
	FamilySize           int                `yaml:"family_size" json:"family_size"`
	ChildrenCount        int                `yaml:"children_count" json:"children_count"`
	AdultsCount          int                `yaml:"adults_count" json:"adults_count"`
	ExpectedUsage        Usage              `yaml:"expected_usage" json:"expected_usage"`
	Priorities           PriorityWeights    `yaml:"priorities" json:"priorities"`
	RequiredBenefits     []string           `yaml:"required_benefits" json:"required_benefits"`
	ExcludedBenefitsOK   []string           `yaml:"excluded_benefits_ok" json:"excluded_benefits_ok"`
	PreferredCostSharing CostSharing        `yaml:"preferred_cost_sharing" json:"preferred_cost_sharing"`
	Budget               *BudgetConstraints `yaml:"budget_constraints,omitempty" json:"budget_constraints,omitempty"`
}

// ValidationError reports an invalid profile field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// New validates p and returns a copy with enum values in canonical case.
func New(p UserProfile) (*UserProfile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ExpectedUsage, _ = ParseUsage(string(p.ExpectedUsage))
	p.PreferredCostSharing, _ = ParseCostSharing(string(p.PreferredCostSharing))
	return &p, nil
}

// Validate enforces family_size = adults + children with at least one adult,
// weights in [0,1], and known enum values.
func (p *UserProfile) Validate() error {
	if p.FamilySize != p.ChildrenCount+p.AdultsCount {
		return &ValidationError{Field: "family_size", Msg: fmt.Sprintf(
			"%d must equal children_count (%d) + adults_count (%d)", p.FamilySize, p.ChildrenCount, p.AdultsCount)}
	}
	if p.FamilySize < 1 {
		return &ValidationError{Field: "family_size", Msg: fmt.Sprintf("must be at least 1, got %d", p.FamilySize)}
	}
	if p.ChildrenCount < 0 {
		return &ValidationError{Field: "children_count", Msg: fmt.Sprintf("must be non-negative, got %d", p.ChildrenCount)}
	}
	if p.AdultsCount < 1 {
		return &ValidationError{Field: "adults_count", Msg: fmt.Sprintf("must be at least 1, got %d", p.AdultsCount)}
	}
	if _, err := ParseUsage(string(p.ExpectedUsage)); err != nil {
		return &ValidationError{Field: "expected_usage", Msg: err.Error()}
	}
	if _, err := ParseCostSharing(string(p.PreferredCostSharing)); err != nil {
		return &ValidationError{Field: "preferred_cost_sharing", Msg: err.Error()}
	}
	if err := p.Priorities.Validate(); err != nil {
		return err
	}
	if p.Budget != nil {
		if err := p.Budget.Validate(); err != nil {
			return err
		}
	}
	return nil
}
