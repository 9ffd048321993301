package plan

import (
	"log/slog"
	"strconv"
)

// Plan aggregates every benefit row sharing one plan id. Benefits are keyed by
// normalized name and iterate in the order they were first seen.
type Plan struct {
	PlanID              string
	StandardComponentID string
	StateCode           string
	IssuerID            string
	BusinessYear        int

	order  []string
	byName map[string]Benefit
}

// New builds a Plan from records that must all describe the same plan.
// A later record whose name normalizes to an existing key is dropped with a warning.
func New(records []Benefit, logger *slog.Logger) (*Plan, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	if logger == nil {
		logger = slog.Default()
	}

	first := records[0]
	for i := 1; i < len(records); i++ {
		if err := checkMetadata(&first, &records[i], i); err != nil {
			return nil, err
		}
	}

	p := &Plan{
		PlanID:              first.PlanID,
		StandardComponentID: first.StandardComponentID,
		StateCode:           first.StateCode,
		IssuerID:            first.IssuerID,
		BusinessYear:        first.BusinessYear,
		order:               make([]string, 0, len(records)),
		byName:              make(map[string]Benefit, len(records)),
	}

	for _, r := range records {
		key := NormalizeName(r.Name)
		if kept, ok := p.byName[key]; ok {
			logger.Warn("duplicate benefit name, keeping first",
				"plan_id", p.PlanID, "benefit", r.Name, "kept", kept.Name)
			continue
		}
		p.order = append(p.order, key)
		p.byName[key] = r
	}

	return p, nil
}

func checkMetadata(first, r *Benefit, idx int) error {
	mismatch := func(field, want, got string) error {
		return &MetadataMismatchError{PlanID: first.PlanID, Field: field, Want: want, Got: got, Index: idx}
	}
	switch {
	case r.PlanID != first.PlanID:
		return mismatch("plan_id", first.PlanID, r.PlanID)
	case r.StandardComponentID != first.StandardComponentID:
		return mismatch("standard_component_id", first.StandardComponentID, r.StandardComponentID)
	case r.StateCode != first.StateCode:
		return mismatch("state_code", first.StateCode, r.StateCode)
	case r.IssuerID != first.IssuerID:
		return mismatch("issuer_id", first.IssuerID, r.IssuerID)
	case r.BusinessYear != first.BusinessYear:
		return mismatch("business_year", strconv.Itoa(first.BusinessYear), strconv.Itoa(r.BusinessYear))
	}
	return nil
}

// Benefit looks a benefit up by name. The query is normalized; there is no
// partial matching.
func (p *Plan) Benefit(name string) (Benefit, bool) {
	b, ok := p.byName[NormalizeName(name)]
	return b, ok
}

func (p *Plan) HasBenefit(name string) bool {
	_, ok := p.byName[NormalizeName(name)]
	return ok
}

// Len returns the number of distinct benefits.
func (p *Plan) Len() int { return len(p.order) }

// Benefits returns the benefits in insertion order.
func (p *Plan) Benefits() []Benefit {
	out := make([]Benefit, len(p.order))
	for i, key := range p.order {
		out[i] = p.byName[key]
	}
	return out
}

// Names returns the normalized benefit keys in insertion order.
func (p *Plan) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *Plan) CoveredBenefits() []Benefit {
	var out []Benefit
	for _, key := range p.order {
		if b := p.byName[key]; b.IsCovered() {
			out = append(out, b)
		}
	}
	return out
}

func (p *Plan) EHBBenefits() []Benefit {
	var out []Benefit
	for _, key := range p.order {
		if b := p.byName[key]; b.IsEssential() {
			out = append(out, b)
		}
	}
	return out
}
