package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"plantool/measure"
)

// Input is the loosely specified profile a user writes by hand (YAML or JSON).
// Missing fields are inferred by FromInput.
type Input struct {
	FamilySize           *int               `yaml:"family_size" json:"family_size"`
	ChildrenCount        *int               `yaml:"children_count" json:"children_count"`
	AdultsCount          *int               `yaml:"adults_count" json:"adults_count"`
	RequiredBenefits     []string           `yaml:"required_benefits" json:"required_benefits"`
	ExcludedBenefitsOK   []string           `yaml:"excluded_benefits_ok" json:"excluded_benefits_ok"`
	PreferredCostSharing string             `yaml:"preferred_cost_sharing" json:"preferred_cost_sharing"`
	ExpectedUsage        string             `yaml:"expected_usage" json:"expected_usage"`
	Priorities           *WeightsInput      `yaml:"priorities" json:"priorities"`
	Budget               *BudgetConstraints `yaml:"budget_constraints" json:"budget_constraints"`
}

// WeightsInput allows any subset of weights; missing ones take the default preset value.
type WeightsInput struct {
	Coverage *float64 `yaml:"coverage_weight" json:"coverage_weight"`
	Cost     *float64 `yaml:"cost_weight" json:"cost_weight"`
	Limit    *float64 `yaml:"limit_weight" json:"limit_weight"`
}

// ErrNoFamily is returned when no family composition field is present.
var ErrNoFamily = errors.New("cannot determine family composition: provide family_size, children_count and adults_count")

// LoadInput reads a profile file. JSON is accepted since it parses as YAML.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}
	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &in, nil
}

// FamilyComposition resolves (family_size, children, adults) from whichever
// fields are present. With only family_size, a family of one is a single adult
// and larger families are assumed to have two adults at most.
func (in *Input) FamilyComposition() (family, children, adults int, err error) {
	switch {
	case in.FamilySize != nil && in.ChildrenCount != nil && in.AdultsCount != nil:
		return *in.FamilySize, *in.ChildrenCount, *in.AdultsCount, nil
	case in.ChildrenCount != nil && in.AdultsCount != nil:
		return *in.ChildrenCount + *in.AdultsCount, *in.ChildrenCount, *in.AdultsCount, nil
	case in.FamilySize != nil:
		family = *in.FamilySize
		if family == 1 {
			return 1, 0, 1, nil
		}
		adults = min(2, family-1)
		return family, family - adults, adults, nil
	}
	return 0, 0, 0, ErrNoFamily
}

// FromInput builds a validated profile. An invalid expected usage falls back to
// inference and an invalid cost-sharing preference falls back to Either; both
// are logged.
func FromInput(in *Input, logger *slog.Logger) (*UserProfile, error) {
	if logger == nil {
		logger = slog.Default()
	}
	family, children, adults, err := in.FamilyComposition()
	if err != nil {
		return nil, err
	}

	p := UserProfile{
		FamilySize:         family,
		ChildrenCount:      children,
		AdultsCount:        adults,
		RequiredBenefits:   append([]string(nil), in.RequiredBenefits...),
		ExcludedBenefitsOK: append([]string(nil), in.ExcludedBenefitsOK...),
		Budget:             in.Budget,
	}

	if in.ExpectedUsage != "" {
		u, err := ParseUsage(in.ExpectedUsage)
		if err != nil {
			logger.Warn("invalid expected_usage, inferring from input", "value", in.ExpectedUsage)
			u = InferUsage(p.RequiredBenefits, family, children)
		}
		p.ExpectedUsage = u
	} else {
		p.ExpectedUsage = InferUsage(p.RequiredBenefits, family, children)
	}

	p.PreferredCostSharing = PreferEither
	if in.PreferredCostSharing != "" {
		cs, err := ParseCostSharing(in.PreferredCostSharing)
		if err != nil {
			logger.Warn("invalid preferred_cost_sharing, using Either", "value", in.PreferredCostSharing)
			cs = PreferEither
		}
		p.PreferredCostSharing = cs
	}

	if in.Priorities != nil {
		w := DefaultWeights()
		if in.Priorities.Coverage != nil {
			w.Coverage = *in.Priorities.Coverage
		}
		if in.Priorities.Cost != nil {
			w.Cost = *in.Priorities.Cost
		}
		if in.Priorities.Limit != nil {
			w.Limit = *in.Priorities.Limit
		}
		p.Priorities = w
	} else {
		p.Priorities = DefaultPriorities(p.RequiredBenefits, p.PreferredCostSharing, p.Budget)
	}

	return New(p)
}

var highUsage = measure.PhraseSet{
	Name:    "high_usage",
	Mode:    measure.IgnoreCase,
	Phrases: []string{"orthodontia", "major", "surgery", "specialist", "chronic"},
}

// InferUsage estimates usage from the number of required benefits, children,
// family size and benefits that imply heavy use.
func InferUsage(required []string, familySize, children int) Usage {
	score := len(required)*2 + children*3 + familySize
	for _, name := range required {
		if highUsage.Match(name) {
			score += 5
		}
	}
	switch {
	case score >= 15:
		return UsageHigh
	case score >= 8:
		return UsageMedium
	}
	return UsageLow
}

// DefaultPriorities picks weights when the user gave none.
func DefaultPriorities(required []string, pref CostSharing, budget *BudgetConstraints) PriorityWeights {
	if budget != nil && (budget.MaxMonthlyPremium != nil || budget.MaxAnnualOutOfPocket != nil) {
		return CostFocused()
	}
	if len(required) >= 5 {
		return CoverageFocused()
	}
	if pref != PreferEither {
		return PriorityWeights{Coverage: 0.35, Cost: 0.45, Limit: 0.2}
	}
	return Balanced()
}

// UsePreset replaces any explicit priorities with a named preset.
func (in *Input) UsePreset(name string) error {
	w, err := Preset(name)
	if err != nil {
		return err
	}
	in.Priorities = &WeightsInput{Coverage: &w.Coverage, Cost: &w.Cost, Limit: &w.Limit}
	return nil
}
