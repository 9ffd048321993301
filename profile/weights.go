package profile

import "fmt"

// PriorityWeights weight the coverage, cost and limit scores in the overall
// score. Each weight is in [0,1]; they need not sum to 1.
type PriorityWeights struct {
	Coverage float64 `yaml:"coverage_weight" json:"coverage_weight"`
	Cost     float64 `yaml:"cost_weight" json:"cost_weight"`
	Limit    float64 `yaml:"limit_weight" json:"limit_weight"`
}

func DefaultWeights() PriorityWeights {
	return PriorityWeights{Coverage: 0.4, Cost: 0.4, Limit: 0.2}
}

func CoverageFocused() PriorityWeights {
	return PriorityWeights{Coverage: 0.6, Cost: 0.3, Limit: 0.1}
}

func CostFocused() PriorityWeights {
	return PriorityWeights{Coverage: 0.2, Cost: 0.7, Limit: 0.1}
}

func Balanced() PriorityWeights {
	return PriorityWeights{Coverage: 0.33, Cost: 0.33, Limit: 0.34}
}

// Preset returns a named weight preset: default, coverage, cost or balanced.
func Preset(name string) (PriorityWeights, error) {
	switch name {
	case "", "default":
		return DefaultWeights(), nil
	case "coverage", "coverage_focused":
		return CoverageFocused(), nil
	case "cost", "cost_focused":
		return CostFocused(), nil
	case "balanced":
		return Balanced(), nil
	}
	return PriorityWeights{}, fmt.Errorf("unknown priority preset %q", name)
}

func (w PriorityWeights) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"coverage_weight", w.Coverage},
		{"cost_weight", w.Cost},
		{"limit_weight", w.Limit},
	} {
		if !(f.v >= 0 && f.v <= 1) {
			return &ValidationError{Field: f.name, Msg: fmt.Sprintf("weight must be between 0.0 and 1.0, got %g", f.v)}
		}
	}
	return nil
}

func (w PriorityWeights) Sum() float64 {
	return w.Coverage + w.Cost + w.Limit
}
