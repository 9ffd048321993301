package recommend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantool/agent"
	"plantool/plan"
	"plantool/profile"
	"plantool/reasoning"
)

func strPtr(s string) *string { return &s }

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newEngine() *Engine {
	return NewEngine(agent.Options{Logger: discard}, reasoning.Detailed, 2)
}

type row struct {
	name  string
	coins string
}

func buildPlan(t *testing.T, id string, rows ...row) *plan.Plan {
	t.Helper()
	var records []plan.Benefit
	for _, r := range rows {
		records = append(records, plan.Benefit{
			BusinessYear:        2024,
			StateCode:           "AK",
			IssuerID:            "21989",
			StandardComponentID: id,
			PlanID:              id,
			Name:                r.name,
			Coverage:            plan.Covered,
			EHB:                 plan.EHBYes,
			CoinsInnTier1:       strPtr(r.coins),
		})
	}
	p, err := plan.New(records, discard)
	require.NoError(t, err)
	return p
}

func userProfile(t *testing.T, required ...string) *profile.UserProfile {
	t.Helper()
	u, err := profile.New(profile.UserProfile{
		FamilySize:           1,
		AdultsCount:          1,
		ExpectedUsage:        profile.UsageMedium,
		Priorities:           profile.DefaultWeights(),
		RequiredBenefits:     required,
		PreferredCostSharing: profile.PreferEither,
	})
	require.NoError(t, err)
	return u
}

func TestRecommendSinglePlan(t *testing.T) {
	p := buildPlan(t, "PLAN-001",
		row{"Basic Dental Care - Adult", "30%"},
		row{"Orthodontia - Child", "50%"},
	)
	u := userProfile(t, "Basic Dental Care - Adult", "Orthodontia - Child")

	recs, err := newEngine().Recommend(context.Background(), []*plan.Plan{p}, u, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "PLAN-001", recs[0].PlanID)
	assert.Equal(t, 1, recs[0].Rank)
	cov := recs[0].Reasoning.Coverage
	assert.Equal(t, cov.RequiredTotal, cov.RequiredCovered)
	assert.Empty(t, cov.Missing)
	assert.Greater(t, recs[0].OverallScore, 0.0)
}

func TestRecommendCostDominates(t *testing.T) {
	a := buildPlan(t, "PLAN-A", row{"Basic Dental Care - Adult", "20%"})
	b := buildPlan(t, "PLAN-B", row{"Basic Dental Care - Adult", "50%"})
	u := userProfile(t, "Basic Dental Care - Adult")

	recs, err := newEngine().Recommend(context.Background(), []*plan.Plan{b, a}, u, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "PLAN-A", recs[0].PlanID)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, "PLAN-B", recs[1].PlanID)
	assert.Equal(t, 2, recs[1].Rank)
	assert.Equal(t, []string{"Higher Cost score (68% vs 50%)"}, Differences(recs[1], recs[0]))
}

func TestRecommendTiesKeepInputOrder(t *testing.T) {
	var plans []*plan.Plan
	for _, id := range []string{"PLAN-3", "PLAN-1", "PLAN-2"} {
		plans = append(plans, buildPlan(t, id, row{"Routine Dental Services (Adult)", "20%"}))
	}
	recs, err := newEngine().Recommend(context.Background(), plans, userProfile(t), 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, id := range []string{"PLAN-3", "PLAN-1", "PLAN-2"} {
		assert.Equal(t, id, recs[i].PlanID)
		assert.Equal(t, i+1, recs[i].Rank)
	}
}

func TestRecommendTieBreaksOnCoverage(t *testing.T) {
	// Same cost and limits; only the second plan covers the required benefit.
	// With no coverage weight both overall scores match.
	missing := buildPlan(t, "PLAN-MISSING", row{"Routine Dental Services (Adult)", "20%"})
	covers := buildPlan(t, "PLAN-COVERS", row{"Basic Dental Care - Adult", "20%"})

	u, err := profile.New(profile.UserProfile{
		FamilySize:           1,
		AdultsCount:          1,
		ExpectedUsage:        profile.UsageMedium,
		Priorities:           profile.PriorityWeights{Coverage: 0, Cost: 0.6, Limit: 0.4},
		RequiredBenefits:     []string{"Basic Dental Care - Adult"},
		PreferredCostSharing: profile.PreferEither,
	})
	require.NoError(t, err)

	recs, err := newEngine().Recommend(context.Background(), []*plan.Plan{missing, covers}, u, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, recs[0].OverallScore, recs[1].OverallScore)
	assert.Greater(t, recs[0].Fit.Coverage, recs[1].Fit.Coverage)
	assert.Equal(t, "PLAN-COVERS", recs[0].PlanID)
	assert.Equal(t, "PLAN-MISSING", recs[1].PlanID)
}

func TestRecommendTopN(t *testing.T) {
	plans := []*plan.Plan{
		buildPlan(t, "PLAN-A", row{"X", "10%"}),
		buildPlan(t, "PLAN-B", row{"X", "30%"}),
		buildPlan(t, "PLAN-C", row{"X", "50%"}),
	}
	u := userProfile(t, "X")
	e := newEngine()

	recs, err := e.Recommend(context.Background(), plans, u, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []int{1, 2}, []int{recs[0].Rank, recs[1].Rank})

	all, err := e.Recommend(context.Background(), plans, u, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].OverallScore, all[i].OverallScore)
	}
}

func TestRecommendEmpty(t *testing.T) {
	recs, err := newEngine().Recommend(context.Background(), nil, userProfile(t), 5)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine().Recommend(ctx, []*plan.Plan{buildPlan(t, "P", row{"X", "10%"})}, userProfile(t), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommendWithPlans(t *testing.T) {
	a := buildPlan(t, "PLAN-A", row{"X", "20%"})
	b := buildPlan(t, "PLAN-B", row{"X", "50%"})
	out, err := newEngine().RecommendWithPlans(context.Background(), []*plan.Plan{b, a}, userProfile(t, "X"), 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Same(t, a, out[0].Plan)
	assert.Same(t, b, out[1].Plan)
	assert.Equal(t, "PLAN-A", out[0].Recommendation.PlanID)
}

func f64(v float64) *float64 { return &v }

func TestDifferences(t *testing.T) {
	prev := Recommendation{Rank: 1, Fit: FitScores{Coverage: 0.9, Cost: 0.8, Limit: 0.7}}
	prev.Reasoning.Coverage = reasoning.CoverageAnalysis{RequiredCovered: 3, RequiredTotal: 3}
	prev.Reasoning.Cost.AnnualMaximum = f64(5000)

	cur := Recommendation{Rank: 2, Fit: FitScores{Coverage: 0.5, Cost: 0.5, Limit: 0.5}}
	cur.Reasoning.Coverage = reasoning.CoverageAnalysis{RequiredCovered: 2, RequiredTotal: 3, Missing: []string{"A"}}

	assert.Equal(t, []string{
		"Covers 3 vs 2 required benefits",
		"Higher Coverage score (90% vs 50%)",
		"Higher Cost score (80% vs 50%)",
	}, Differences(cur, prev))

	// Scores within the threshold fall through to annual maximum and limits.
	cur.Reasoning.Coverage = prev.Reasoning.Coverage
	cur.Fit = FitScores{Coverage: 0.88, Cost: 0.79, Limit: 0.7}
	cur.Reasoning.Cost.AnnualMaximum = f64(1000)
	cur.Reasoning.Limits.Restrictive = []string{"B"}
	assert.Equal(t, []string{
		"Higher annual maximum ($5,000 vs $1,000)",
		"Fewer restrictive limits (0 vs 1)",
	}, Differences(cur, prev))

	cur.Reasoning.Cost.AnnualMaximum = nil
	cur.Reasoning.Limits.Restrictive = nil
	assert.Equal(t, []string{"Has annual maximum ($5,000)"}, Differences(cur, prev))

	cur.Reasoning.Cost.AnnualMaximum = f64(4800)
	assert.Empty(t, Differences(cur, prev))
}

func TestRenderJSON(t *testing.T) {
	a := buildPlan(t, "PLAN-A", row{"X", "20%"})
	u := userProfile(t, "X")
	recs, err := newEngine().Recommend(context.Background(), []*plan.Plan{a}, u, 0)
	require.NoError(t, err)

	out, err := RenderJSON(recs, u)
	require.NoError(t, err)

	var doc struct {
		RunID           string `json:"run_id"`
		Recommendations []struct {
			PlanID    string             `json:"plan_id"`
			Rank      int                `json:"rank"`
			Fit       map[string]float64 `json:"user_fit_scores"`
			Reasoning map[string]string  `json:"reasoning"`
			TradeOffs []any              `json:"trade_offs"`
		} `json:"recommendations"`
		UserProfile map[string]any `json:"user_profile"`
		Summary     string         `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	_, err = uuid.Parse(doc.RunID)
	assert.NoError(t, err)
	require.Len(t, doc.Recommendations, 1)
	assert.Equal(t, "PLAN-A", doc.Recommendations[0].PlanID)
	assert.Len(t, doc.Recommendations[0].Fit, 4)
	assert.Contains(t, doc.Recommendations[0].Reasoning, "exclusions")
	assert.NotNil(t, doc.Recommendations[0].TradeOffs)
	assert.Equal(t, "Medium", doc.UserProfile["expected_usage"])
	assert.True(t, strings.HasPrefix(doc.Summary, "Found 1 plan(s) matching your criteria. Top recommendation: PLAN-A (score: "))
	assert.Contains(t, out, `"trade_offs": []`)

	empty, err := RenderJSON(nil, nil)
	require.NoError(t, err)
	assert.Contains(t, empty, `"recommendations": []`)
	assert.Contains(t, empty, `"summary": "No recommendations found."`)
	assert.NotContains(t, empty, "user_profile")
}

func TestRenderText(t *testing.T) {
	a := buildPlan(t, "PLAN-A", row{"X", "20%"})
	b := buildPlan(t, "PLAN-B", row{"X", "50%"})
	u := userProfile(t, "X")
	recs, err := newEngine().Recommend(context.Background(), []*plan.Plan{b, a}, u, 0)
	require.NoError(t, err)

	out := RenderText(recs, u)
	lines := strings.Split(out, "\n")
	assert.Equal(t, strings.Repeat("=", 60), lines[0])
	assert.Equal(t, "PLAN RECOMMENDATIONS", lines[1])
	assert.Contains(t, out, "  Family Size: 1\n  Children: 0\n  Adults: 1\n  Expected Usage: Medium\n")
	assert.Contains(t, out, "  Required Benefits: 1 benefit(s)\n")
	assert.Contains(t, out, "Rank #1: PLAN-A\nOverall Score: ")
	assert.Contains(t, out, "Key Differences from Rank #1:\n  • Higher Cost score (68% vs 50%)\n\nRank #2: PLAN-B")
	assert.Contains(t, out, "User Fit Scores:\n  Coverage: ")
	assert.Contains(t, out, "  Cost: 68.00%\n")
	assert.Equal(t, 1, strings.Count(out, strings.Repeat("-", 60)))

	assert.Equal(t, "No recommendations found.", RenderText(nil, u))
}

func TestRenderMarkdown(t *testing.T) {
	assert.Equal(t, "# Plan Recommendations\n\nNo recommendations found.", RenderMarkdown(nil))

	a := buildPlan(t, "PLAN-A", row{"X", "20%"})
	recs, err := newEngine().Recommend(context.Background(), []*plan.Plan{a}, userProfile(t, "X"), 0)
	require.NoError(t, err)
	out := RenderMarkdown(recs)
	assert.True(t, strings.HasPrefix(out, "# Plan Recommendations\n\n## Rank #1: PLAN-A\n\n**Overall Score:** "))
	assert.Contains(t, out, "### User Fit Scores\n\n- **Coverage:** ")
	assert.Contains(t, out, "### Strengths\n\n- Covers all 1 required benefits\n")
	assert.Contains(t, out, "### Reasoning\n\n")
	assert.True(t, strings.HasSuffix(out, "---\n"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "TEXT": FormatText, "md": FormatMarkdown, " markdown ": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
