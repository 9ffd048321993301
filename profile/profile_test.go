package profile

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }
func f64Ptr(f float64) *float64 { return &f }

func validProfile() UserProfile {
	return UserProfile{
		FamilySize:           3,
		ChildrenCount:        1,
		AdultsCount:          2,
		ExpectedUsage:        UsageMedium,
		Priorities:           DefaultWeights(),
		PreferredCostSharing: PreferEither,
	}
}

func TestNewValid(t *testing.T) {
	p, err := New(validProfile())
	require.NoError(t, err)
	assert.Equal(t, 3, p.FamilySize)
}

func TestNewFamilyInvariant(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*UserProfile)
		field string
	}{
		{"sum mismatch", func(p *UserProfile) { p.FamilySize = 4 }, "family_size"},
		{"zero family", func(p *UserProfile) { p.FamilySize, p.ChildrenCount, p.AdultsCount = 0, 0, 0 }, "family_size"},
		{"negative children", func(p *UserProfile) { p.FamilySize, p.ChildrenCount, p.AdultsCount = 1, -1, 2 }, "children_count"},
		{"no adults", func(p *UserProfile) { p.FamilySize, p.ChildrenCount, p.AdultsCount = 2, 2, 0 }, "adults_count"},
		{"weight above one", func(p *UserProfile) { p.Priorities.Cost = 1.5 }, "cost_weight"},
		{"negative weight", func(p *UserProfile) { p.Priorities.Limit = -0.1 }, "limit_weight"},
		{"bad usage", func(p *UserProfile) { p.ExpectedUsage = "Extreme" }, "expected_usage"},
		{"negative budget", func(p *UserProfile) {
			p.Budget = &BudgetConstraints{MaxCopayPerVisit: f64Ptr(-1)}
		}, "max_copay_per_visit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.edit(&p)
			_, err := New(p)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNewCanonicalizesEnums(t *testing.T) {
	in := validProfile()
	in.ExpectedUsage = "high"
	in.PreferredCostSharing = " copay "

	p, err := New(in)
	require.NoError(t, err)
	assert.Equal(t, UsageHigh, p.ExpectedUsage)
	assert.Equal(t, PreferCopay, p.PreferredCostSharing)
}

func TestWeightsRejectNaN(t *testing.T) {
	w := DefaultWeights()
	w.Cost = math.NaN()
	var ve *ValidationError
	require.ErrorAs(t, w.Validate(), &ve)
	assert.Equal(t, "cost_weight", ve.Field)
}

func TestPresets(t *testing.T) {
	for name, want := range map[string]PriorityWeights{
		"default":  {0.4, 0.4, 0.2},
		"coverage": {0.6, 0.3, 0.1},
		"cost":     {0.2, 0.7, 0.1},
		"balanced": {0.33, 0.33, 0.34},
	} {
		got, err := Preset(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
		assert.InDelta(t, 1.0, got.Sum(), 1e-9, name)
	}
	_, err := Preset("speed")
	assert.Error(t, err)
}

func TestFamilyComposition(t *testing.T) {
	tests := []struct {
		in                       Input
		family, children, adults int
	}{
		{Input{FamilySize: intPtr(4), ChildrenCount: intPtr(1), AdultsCount: intPtr(3)}, 4, 1, 3},
		{Input{ChildrenCount: intPtr(2), AdultsCount: intPtr(2)}, 4, 2, 2},
		{Input{FamilySize: intPtr(1)}, 1, 0, 1},
		{Input{FamilySize: intPtr(2)}, 2, 1, 1},
		{Input{FamilySize: intPtr(5)}, 5, 3, 2},
	}
	for _, tt := range tests {
		f, c, a, err := tt.in.FamilyComposition()
		require.NoError(t, err)
		assert.Equal(t, []int{tt.family, tt.children, tt.adults}, []int{f, c, a})
	}

	_, _, _, err := (&Input{}).FamilyComposition()
	assert.ErrorIs(t, err, ErrNoFamily)
}

func TestInferUsage(t *testing.T) {
	assert.Equal(t, UsageLow, InferUsage([]string{"Basic Dental Care - Adult"}, 1, 0))
	// 2*2 + 0 + 2 + 5 (orthodontia) = 11
	assert.Equal(t, UsageMedium, InferUsage([]string{"Orthodontia - Adult", "Basic"}, 2, 0))
	// 2*2 + 2*3 + 4 + 5 = 19
	assert.Equal(t, UsageHigh, InferUsage([]string{"Major Dental Care - Child", "Basic"}, 4, 2))
}

func TestDefaultPriorities(t *testing.T) {
	budget := &BudgetConstraints{MaxAnnualOutOfPocket: f64Ptr(2000)}
	assert.Equal(t, CostFocused(), DefaultPriorities(nil, PreferEither, budget))
	assert.Equal(t, Balanced(), DefaultPriorities(nil, PreferEither, &BudgetConstraints{MaxCopayPerVisit: f64Ptr(20)}))
	assert.Equal(t, CoverageFocused(), DefaultPriorities([]string{"a", "b", "c", "d", "e"}, PreferCopay, nil))
	assert.Equal(t, PriorityWeights{0.35, 0.45, 0.2}, DefaultPriorities([]string{"a"}, PreferCopay, nil))
	assert.Equal(t, Balanced(), DefaultPriorities(nil, PreferEither, nil))
}

func TestFromInput(t *testing.T) {
	in := &Input{
		FamilySize:           intPtr(3),
		RequiredBenefits:     []string{"Basic Dental Care - Adult"},
		PreferredCostSharing: "copay",
		ExpectedUsage:        "high",
		Priorities:           &WeightsInput{Coverage: f64Ptr(0.7)},
	}
	p, err := FromInput(in, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, p.AdultsCount)
	assert.Equal(t, 1, p.ChildrenCount)
	assert.Equal(t, UsageHigh, p.ExpectedUsage)
	assert.Equal(t, PreferCopay, p.PreferredCostSharing)
	assert.Equal(t, PriorityWeights{0.7, 0.4, 0.2}, p.Priorities)
}

func TestFromInputFallbacks(t *testing.T) {
	in := &Input{
		FamilySize:           intPtr(1),
		PreferredCostSharing: "whatever",
		ExpectedUsage:        "lots",
	}
	p, err := FromInput(in, nil)
	require.NoError(t, err)
	assert.Equal(t, PreferEither, p.PreferredCostSharing)
	assert.Equal(t, UsageLow, p.ExpectedUsage)
	assert.Equal(t, Balanced(), p.Priorities)
}

func TestFromInputRejectsBadFamily(t *testing.T) {
	in := &Input{FamilySize: intPtr(3), ChildrenCount: intPtr(1), AdultsCount: intPtr(1)}
	_, err := FromInput(in, nil)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestUsePreset(t *testing.T) {
	in := &Input{FamilySize: intPtr(1)}
	require.NoError(t, in.UsePreset("cost"))
	p, err := FromInput(in, nil)
	require.NoError(t, err)
	assert.Equal(t, CostFocused(), p.Priorities)

	assert.Error(t, in.UsePreset("cheapest"))
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	data := `family_size: 4
children_count: 2
adults_count: 2
required_benefits:
  - Orthodontia - Child
  - Basic Dental Care - Child
preferred_cost_sharing: Coinsurance
budget_constraints:
  max_monthly_premium: 300
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	in, err := LoadInput(path)
	require.NoError(t, err)
	p, err := FromInput(in, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Orthodontia - Child", "Basic Dental Care - Child"}, p.RequiredBenefits)
	assert.Equal(t, CostFocused(), p.Priorities)
	require.NotNil(t, p.Budget)
	assert.Equal(t, 300.0, *p.Budget.MaxMonthlyPremium)

	jsonPath := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"family_size": 2, "required_benefits": ["X"]}`), 0644))
	in, err = LoadInput(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, *in.FamilySize)
}

func TestFromText(t *testing.T) {
	p, err := FromText("We are a family of 4 with 2 kids who need braces and prefer copays, about $400 per month", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, p.FamilySize)
	assert.Equal(t, 2, p.ChildrenCount)
	assert.Equal(t, 2, p.AdultsCount)
	assert.Equal(t, []string{"Orthodontia - Child", "Orthodontia - Adult"}, p.RequiredBenefits)
	assert.Equal(t, PreferCopay, p.PreferredCostSharing)
	require.NotNil(t, p.Budget)
	assert.Equal(t, 400.0, *p.Budget.MaxMonthlyPremium)
	assert.Equal(t, CostFocused(), p.Priorities)
}

func TestFromTextDefaults(t *testing.T) {
	p, err := FromText("I want something affordable", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p.FamilySize)
	assert.Equal(t, 1, p.AdultsCount)
	assert.Equal(t, []string{"Basic Dental Care - Adult"}, p.RequiredBenefits)
	assert.Equal(t, PreferEither, p.PreferredCostSharing)
	assert.Nil(t, p.Budget)
}

func TestFromTextChildMention(t *testing.T) {
	p, err := FromText("3 people, our child needs coinsurance coverage. We don't need orthodontia - adult", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.FamilySize)
	assert.Equal(t, 1, p.ChildrenCount)
	assert.Equal(t, PreferCoinsurance, p.PreferredCostSharing)
	assert.Equal(t, []string{"Orthodontia - Adult"}, p.ExcludedBenefitsOK)
}
