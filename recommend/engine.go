// Package recommend ranks scored plans and renders the results.
package recommend

import (
	"cmp"
	"context"
	"log/slog"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"plantool/agent"
	"plantool/plan"
	"plantool/profile"
	"plantool/reasoning"
	"plantool/scoring"
)

// FitScores are the four dimension scores shown to the user.
type FitScores struct {
	Coverage  float64 `json:"coverage"`
	Cost      float64 `json:"cost"`
	Limit     float64 `json:"limit"`
	Exclusion float64 `json:"exclusion"`
}

// Recommendation is one ranked plan. Rank is 1-based and assigned after sorting.
type Recommendation struct {
	PlanID       string          `json:"plan_id"`
	OverallScore float64         `json:"overall_score"`
	Rank         int             `json:"rank"`
	Reasoning    reasoning.Chain `json:"reasoning_chain"`
	Fit          FitScores       `json:"user_fit_scores"`
}

// PlanRecommendation pairs a recommendation with the plan it ranks.
type PlanRecommendation struct {
	Plan           *plan.Plan
	Recommendation Recommendation
}

// Engine scores, explains and ranks plans.
type Engine struct {
	opts    agent.Options
	scorer  *scoring.Orchestrator
	builder *reasoning.Builder
	workers int
}

// NewEngine builds an engine. workers bounds per-plan concurrency; values
// below 1 use GOMAXPROCS.
func NewEngine(opts agent.Options, style reasoning.Style, workers int) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		opts:    opts,
		scorer:  scoring.New(opts, workers),
		builder: reasoning.NewBuilder(opts.Thresholds, style, opts.Logger),
		workers: workers,
	}
}

// Recommend returns plans ordered by overall score, then coverage score, both
// descending. Equal keys keep input order. topN > 0 truncates the result.
func (e *Engine) Recommend(ctx context.Context, plans []*plan.Plan, u *profile.UserProfile, topN int) ([]Recommendation, error) {
	if len(plans) == 0 {
		e.opts.Logger.Warn("no plans provided for recommendation")
		return []Recommendation{}, nil
	}

	recs := make([]Recommendation, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range plans {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := e.scorer.ScorePlan(p, u)
			recs[i] = Recommendation{
				PlanID:       p.PlanID,
				OverallScore: s.Overall,
				Reasoning:    e.builder.Build(p, u),
				Fit: FitScores{
					Coverage:  s.Coverage,
					Cost:      s.Cost,
					Limit:     s.Limit,
					Exclusion: s.Exclusion,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		if c := cmp.Compare(b.OverallScore, a.OverallScore); c != 0 {
			return c
		}
		return cmp.Compare(b.Fit.Coverage, a.Fit.Coverage)
	})
	for i := range recs {
		recs[i].Rank = i + 1
	}
	if topN > 0 && topN < len(recs) {
		recs = recs[:topN]
	}

	e.opts.Metrics.Recommended(len(recs))
	e.opts.Logger.Info("recommendations generated",
		"plans", len(plans), "returned", len(recs), "top_plan", recs[0].PlanID, "top_score", recs[0].OverallScore)
	return recs, nil
}

// RecommendWithPlans is Recommend with each result paired with its plan.
func (e *Engine) RecommendWithPlans(ctx context.Context, plans []*plan.Plan, u *profile.UserProfile, topN int) ([]PlanRecommendation, error) {
	recs, err := e.Recommend(ctx, plans, u, topN)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*plan.Plan, len(plans))
	for _, p := range plans {
		byID[p.PlanID] = p
	}
	out := make([]PlanRecommendation, len(recs))
	for i, r := range recs {
		out[i] = PlanRecommendation{Plan: byID[r.PlanID], Recommendation: r}
	}
	return out, nil
}
