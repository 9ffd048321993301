// Package agent scores a plan against a user profile along one dimension each.
// Agents are stateless and safe for concurrent use.
package agent

import (
	"log/slog"

	"plantool/measure"
	"plantool/metrics"
	"plantool/plan"
	"plantool/profile"
)

// Agent maps a plan and profile to a score in [0,1].
type Agent interface {
	Name() string
	Score(p *plan.Plan, u *profile.UserProfile) float64
	SubScores(p *plan.Plan, u *profile.UserProfile) []SubScore
}

// SubScore is one weighted term of an agent's score.
type SubScore struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
}

// Options are shared by all agents. The zero value uses slog.Default, no
// metrics and the default thresholds.
type Options struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Thresholds measure.Thresholds
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Thresholds == (measure.Thresholds{}) {
		o.Thresholds = measure.DefaultThresholds()
	}
	return o
}

// Clamp bounds v to [0,1]. A value that needed clamping points at a bug in a
// sub-score or at out-of-range weights, so it is logged and counted.
func (o Options) Clamp(component, planID string, v float64) float64 {
	c := measure.Clamp01(v)
	if c != v {
		logger := o.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("score clamped",
			"component", component, "plan_id", planID, "raw", v, "clamped", c)
		o.Metrics.ClampObserved(component)
	}
	return c
}

func weighted(subs []SubScore) float64 {
	var sum float64
	for _, s := range subs {
		sum += s.Value * s.Weight
	}
	return sum
}

// All returns the four agents in scoring order.
func All(opts Options) []Agent {
	return []Agent{NewCoverage(opts), NewCost(opts), NewLimit(opts), NewExclusion(opts)}
}
