package plan

import (
	"log/slog"
)

// Aggregate groups records by plan id, in order of first appearance, and builds
// one Plan per group. A group whose metadata is inconsistent is skipped and
// logged; the remaining groups are still returned.
func Aggregate(records []Benefit, logger *slog.Logger) ([]*Plan, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	if logger == nil {
		logger = slog.Default()
	}

	var ids []string
	groups := make(map[string][]Benefit)
	for _, r := range records {
		if _, ok := groups[r.PlanID]; !ok {
			ids = append(ids, r.PlanID)
		}
		groups[r.PlanID] = append(groups[r.PlanID], r)
	}

	plans := make([]*Plan, 0, len(ids))
	for _, id := range ids {
		p, err := New(groups[id], logger)
		if err != nil {
			logger.Warn("skipping plan", "plan_id", id, "records", len(groups[id]), "error", err)
			continue
		}
		plans = append(plans, p)
	}

	logger.Debug("aggregated plans", "records", len(records), "plans", len(plans), "skipped", len(ids)-len(plans))
	return plans, nil
}

// Index maps plans by id.
func Index(plans []*Plan) (map[string]*Plan, error) {
	idx := make(map[string]*Plan, len(plans))
	for _, p := range plans {
		if _, ok := idx[p.PlanID]; ok {
			return nil, &DuplicatePlanIDError{PlanID: p.PlanID}
		}
		idx[p.PlanID] = p
	}
	return idx, nil
}
