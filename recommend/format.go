package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"plantool/profile"
	"plantool/reasoning"
)

// Format is an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Render formats recommendations. u may be nil.
func Render(f Format, recs []Recommendation, u *profile.UserProfile) (string, error) {
	switch f {
	case FormatJSON:
		return RenderJSON(recs, u)
	case FormatText:
		return RenderText(recs, u), nil
	case FormatMarkdown:
		return RenderMarkdown(recs), nil
	}
	return "", fmt.Errorf("unknown output format %q", f)
}

type dimension struct {
	label string
	score func(FitScores) float64
}

var dimensions = []dimension{
	{"Coverage", func(s FitScores) float64 { return s.Coverage }},
	{"Cost", func(s FitScores) float64 { return s.Cost }},
	{"Limit", func(s FitScores) float64 { return s.Limit }},
	{"Exclusion", func(s FitScores) float64 { return s.Exclusion }},
}

const (
	scoreDiffThreshold = 0.05
	annualMaxRatio     = 1.1
	maxDifferences     = 3
)

// Differences explains, in at most three items, why prev ranks above cur.
func Differences(cur, prev Recommendation) []string {
	var out []string

	cc, pc := cur.Reasoning.Coverage, prev.Reasoning.Coverage
	if cc.RequiredCovered != pc.RequiredCovered {
		out = append(out, fmt.Sprintf("Covers %d vs %d required benefits", pc.RequiredCovered, cc.RequiredCovered))
	} else if len(pc.Missing) < len(cc.Missing) {
		out = append(out, fmt.Sprintf("Fewer missing benefits (%d vs %d)", len(pc.Missing), len(cc.Missing)))
	}

	// Exclusion is left out: it scales the overall score rather than adding to it.
	for _, d := range dimensions[:3] {
		if len(out) >= maxDifferences {
			break
		}
		p, c := d.score(prev.Fit), d.score(cur.Fit)
		if p-c > scoreDiffThreshold {
			out = append(out, fmt.Sprintf("Higher %s score (%s vs %s)", d.label, wholePercent(p), wholePercent(c)))
		}
	}

	if len(out) < maxDifferences {
		pm, cm := prev.Reasoning.Cost.AnnualMaximum, cur.Reasoning.Cost.AnnualMaximum
		switch {
		case pm == nil:
		case cm == nil:
			out = append(out, fmt.Sprintf("Has annual maximum (%s)", reasoning.Dollars(*pm)))
		case *pm > *cm*annualMaxRatio:
			out = append(out, fmt.Sprintf("Higher annual maximum (%s vs %s)", reasoning.Dollars(*pm), reasoning.Dollars(*cm)))
		}
	}

	if len(out) < maxDifferences {
		pr, cr := len(prev.Reasoning.Limits.Restrictive), len(cur.Reasoning.Limits.Restrictive)
		if pr < cr {
			out = append(out, fmt.Sprintf("Fewer restrictive limits (%d vs %d)", pr, cr))
		}
	}

	return out[:min(len(out), maxDifferences)]
}

func wholePercent(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }
func percent(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

type jsonReasoning struct {
	Coverage   string `json:"coverage"`
	Cost       string `json:"cost"`
	Limits     string `json:"limits"`
	Exclusions string `json:"exclusions"`
}

type jsonRecommendation struct {
	PlanID       string               `json:"plan_id"`
	Rank         int                  `json:"rank"`
	OverallScore float64              `json:"overall_score"`
	Fit          FitScores            `json:"user_fit_scores"`
	Strengths    []string             `json:"strengths"`
	Weaknesses   []string             `json:"weaknesses"`
	Reasoning    jsonReasoning        `json:"reasoning"`
	TradeOffs    []reasoning.TradeOff `json:"trade_offs"`
}

type jsonProfile struct {
	FamilySize    int           `json:"family_size"`
	ChildrenCount int           `json:"children_count"`
	AdultsCount   int           `json:"adults_count"`
	ExpectedUsage profile.Usage `json:"expected_usage"`
}

type jsonOutput struct {
	RunID           string               `json:"run_id"`
	Recommendations []jsonRecommendation `json:"recommendations"`
	UserProfile     *jsonProfile         `json:"user_profile,omitempty"`
	Summary         string               `json:"summary"`
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Summary is the one-line result description used by the JSON output.
func Summary(recs []Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations found."
	}
	return fmt.Sprintf("Found %d plan(s) matching your criteria. Top recommendation: %s (score: %.2f)",
		len(recs), recs[0].PlanID, recs[0].OverallScore)
}

// RenderJSON renders an indented JSON document tagged with a fresh run id.
func RenderJSON(recs []Recommendation, u *profile.UserProfile) (string, error) {
	out := jsonOutput{
		RunID:           uuid.NewString(),
		Recommendations: make([]jsonRecommendation, 0, len(recs)),
		Summary:         Summary(recs),
	}
	for _, r := range recs {
		ex := r.Reasoning.Explanations
		out.Recommendations = append(out.Recommendations, jsonRecommendation{
			PlanID:       r.PlanID,
			Rank:         r.Rank,
			OverallScore: r.OverallScore,
			Fit:          r.Fit,
			Strengths:    orEmpty(r.Reasoning.Strengths),
			Weaknesses:   orEmpty(r.Reasoning.Weaknesses),
			Reasoning:    jsonReasoning{Coverage: ex[0], Cost: ex[1], Limits: ex[2], Exclusions: ex[3]},
			TradeOffs:    orEmpty(r.Reasoning.TradeOffs),
		})
	}
	if u != nil {
		out.UserProfile = &jsonProfile{
			FamilySize:    u.FamilySize,
			ChildrenCount: u.ChildrenCount,
			AdultsCount:   u.AdultsCount,
			ExpectedUsage: u.ExpectedUsage,
		}
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal recommendations: %w", err)
	}
	return string(b), nil
}

// RenderText renders a plain-text report with rank-to-rank comparisons.
func RenderText(recs []Recommendation, u *profile.UserProfile) string {
	if len(recs) == 0 {
		return "No recommendations found."
	}
	rule := strings.Repeat("=", 60)
	lines := []string{rule, "PLAN RECOMMENDATIONS", rule, ""}

	if u != nil {
		lines = append(lines,
			"User Profile:",
			fmt.Sprintf("  Family Size: %d", u.FamilySize),
			fmt.Sprintf("  Children: %d", u.ChildrenCount),
			fmt.Sprintf("  Adults: %d", u.AdultsCount),
		)
		if u.ExpectedUsage != "" {
			lines = append(lines, fmt.Sprintf("  Expected Usage: %s", u.ExpectedUsage))
		}
		if u.PreferredCostSharing != "" {
			lines = append(lines, fmt.Sprintf("  Preferred Cost Sharing: %s", u.PreferredCostSharing))
		}
		if n := len(u.RequiredBenefits); n > 0 {
			lines = append(lines, fmt.Sprintf("  Required Benefits: %d benefit(s)", n))
		}
		lines = append(lines, "")
	}

	for i, r := range recs {
		if i > 0 {
			prev := recs[i-1]
			if diffs := Differences(r, prev); len(diffs) > 0 {
				lines = append(lines, fmt.Sprintf("Key Differences from Rank #%d:", prev.Rank))
				for _, d := range diffs {
					lines = append(lines, "  • "+d)
				}
				lines = append(lines, "")
			}
		}

		lines = append(lines,
			fmt.Sprintf("Rank #%d: %s", r.Rank, r.PlanID),
			"Overall Score: "+percent(r.OverallScore),
			"",
			"User Fit Scores:",
		)
		for _, d := range dimensions {
			lines = append(lines, fmt.Sprintf("  %s: %s", d.label, percent(d.score(r.Fit))))
		}
		lines = append(lines, "")

		lines = appendSection(lines, "Strengths:", "  • ", r.Reasoning.Strengths)
		lines = appendSection(lines, "Weaknesses:", "  • ", r.Reasoning.Weaknesses)
		lines = appendSection(lines, "Reasoning:", "  ", r.Reasoning.Explanations[:])

		if len(r.Reasoning.TradeOffs) > 0 {
			lines = append(lines, "Trade-offs:")
			for _, t := range r.Reasoning.TradeOffs {
				lines = append(lines, "  "+t.Aspect+":", "    Pro: "+t.Pro, "    Con: "+t.Con)
			}
			lines = append(lines, "")
		}

		if i < len(recs)-1 {
			lines = append(lines, strings.Repeat("-", 60), "")
		}
	}
	return strings.Join(lines, "\n")
}

func appendSection(lines []string, title, bullet string, items []string) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, title)
	for _, it := range items {
		lines = append(lines, bullet+it)
	}
	return append(lines, "")
}

// RenderMarkdown renders a markdown report.
func RenderMarkdown(recs []Recommendation) string {
	if len(recs) == 0 {
		return "# Plan Recommendations\n\nNo recommendations found."
	}
	lines := []string{"# Plan Recommendations", ""}
	for _, r := range recs {
		lines = append(lines,
			fmt.Sprintf("## Rank #%d: %s", r.Rank, r.PlanID),
			"",
			"**Overall Score:** "+percent(r.OverallScore),
			"",
			"### User Fit Scores",
			"",
		)
		for _, d := range dimensions {
			lines = append(lines, fmt.Sprintf("- **%s:** %s", d.label, percent(d.score(r.Fit))))
		}
		lines = append(lines, "")

		lines = appendMarkdownList(lines, "### Strengths", r.Reasoning.Strengths)
		lines = appendMarkdownList(lines, "### Weaknesses", r.Reasoning.Weaknesses)

		lines = append(lines, "### Reasoning", "")
		lines = append(lines, r.Reasoning.Explanations[:]...)
		lines = append(lines, "")

		if len(r.Reasoning.TradeOffs) > 0 {
			lines = append(lines, "### Trade-offs", "")
			for _, t := range r.Reasoning.TradeOffs {
				lines = append(lines, "#### "+t.Aspect, "", "- **Pro:** "+t.Pro, "- **Con:** "+t.Con, "")
			}
		}
		lines = append(lines, "---", "")
	}
	return strings.Join(lines, "\n")
}

func appendMarkdownList(lines []string, heading string, items []string) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, heading, "")
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return append(lines, "")
}
