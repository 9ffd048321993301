package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"plantool/plan"
)

// PlanFilter is a set of plan ids.
type PlanFilter map[string]bool

func (f PlanFilter) Contains(planID string) bool { return f[planID] }

type planEntry struct {
	PlanID string `json:"plan_id"`
}

// LoadPlanFilter reads a JSON array of objects with "plan_id" string fields.
func LoadPlanFilter(path string) (PlanFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan filter: %w", err)
	}

	var entries []planEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse plan filter: %w", err)
	}

	filter := make(PlanFilter, len(entries))
	for i, e := range entries {
		id := strings.TrimSpace(e.PlanID)
		if id == "" {
			return nil, fmt.Errorf("plan filter entry %d: empty plan_id", i)
		}
		filter[id] = true
	}
	return filter, nil
}

// NewPlanFilter builds a filter from ids; nil when ids is empty.
func NewPlanFilter(ids ...string) PlanFilter {
	if len(ids) == 0 {
		return nil
	}
	f := make(PlanFilter, len(ids))
	for _, id := range ids {
		f[id] = true
	}
	return f
}

// FilterBenefits keeps the records of plans in f. A nil filter keeps everything.
func FilterBenefits(records []plan.Benefit, f PlanFilter) []plan.Benefit {
	if f == nil {
		return records
	}
	out := records[:0:0]
	for _, r := range records {
		if f.Contains(r.PlanID) {
			out = append(out, r)
		}
	}
	return out
}
