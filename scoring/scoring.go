// Package scoring combines the four agent scores into one overall score per plan.
package scoring

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"plantool/agent"
	"plantool/plan"
	"plantool/profile"
)

// DimensionScores are the per-dimension scores of one plan, all in [0,1].
type DimensionScores struct {
	Coverage  float64 `json:"coverage"`
	Cost      float64 `json:"cost"`
	Limit     float64 `json:"limit"`
	Exclusion float64 `json:"exclusion"`
	Overall   float64 `json:"overall"`
}

// PlanScores pairs a plan id with its scores.
type PlanScores struct {
	PlanID string          `json:"plan_id"`
	Scores DimensionScores `json:"scores"`
}

// Orchestrator runs the agents. It holds no mutable state.
type Orchestrator struct {
	opts      agent.Options
	coverage  *agent.Coverage
	cost      *agent.Cost
	limit     *agent.Limit
	exclusion *agent.Exclusion
	workers   int
}

// New builds an orchestrator. workers bounds ScorePlans concurrency; values
// below 1 use GOMAXPROCS.
func New(opts agent.Options, workers int) *Orchestrator {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Orchestrator{
		opts:      opts,
		coverage:  agent.NewCoverage(opts),
		cost:      agent.NewCost(opts),
		limit:     agent.NewLimit(opts),
		exclusion: agent.NewExclusion(opts),
		workers:   workers,
	}
}

// ScorePlan scores one plan. The three priority-weighted dimensions form the
// base; the exclusion score scales it by a factor between 0.5 and 1.
func (o *Orchestrator) ScorePlan(p *plan.Plan, u *profile.UserProfile) DimensionScores {
	s := DimensionScores{
		Coverage:  o.coverage.Score(p, u),
		Cost:      o.cost.Score(p, u),
		Limit:     o.limit.Score(p, u),
		Exclusion: o.exclusion.Score(p, u),
	}
	w := u.Priorities
	base := s.Coverage*w.Coverage + s.Cost*w.Cost + s.Limit*w.Limit
	modifier := 0.5 + 0.5*s.Exclusion
	s.Overall = o.opts.Clamp("overall", p.PlanID, base*modifier)
	o.opts.Metrics.PlanScored(s.Overall)
	return s
}

// ScorePlans scores every plan, keeping input order. It fails only when ctx is
// cancelled.
func (o *Orchestrator) ScorePlans(ctx context.Context, plans []*plan.Plan, u *profile.UserProfile) ([]PlanScores, error) {
	out := make([]PlanScores, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, p := range plans {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = PlanScores{PlanID: p.PlanID, Scores: o.ScorePlan(p, u)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
