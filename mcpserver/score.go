package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"plantool/agent"
	"plantool/plan"
	"plantool/reasoning"
	"plantool/scoring"
)

// ScoreTool handles the score_plan MCP tool.
type ScoreTool struct {
	plans   map[string]*plan.Plan
	scorer  *scoring.Orchestrator
	agents  []agent.Agent
	builder *reasoning.Builder
	logger  *slog.Logger
}

func NewScoreTool(plans map[string]*plan.Plan, opts agent.Options, style reasoning.Style) *ScoreTool {
	return &ScoreTool{
		plans:   plans,
		scorer:  scoring.New(opts, 1),
		agents:  agent.All(opts),
		builder: reasoning.NewBuilder(opts.Thresholds, style, opts.Logger),
		logger:  opts.Logger,
	}
}

// Definition returns the MCP tool definition for score_plan.
func (t *ScoreTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Score one plan for a user profile. Returns the four dimension scores, the overall score, "+
				"each dimension's weighted sub-scores and the reasoning explanations as JSON.",
		),
		mcp.WithString("plan_id",
			mcp.Required(),
			mcp.Description("Plan identifier (e.g. 21989AK0030001-01)"),
		),
	}, profileOptions()...)
	return mcp.NewTool("score_plan", opts...)
}

type dimensionDetail struct {
	Score     float64          `json:"score"`
	SubScores []agent.SubScore `json:"sub_scores"`
}

type scoreResult struct {
	PlanID       string                     `json:"plan_id"`
	Scores       scoring.DimensionScores    `json:"scores"`
	Dimensions   map[string]dimensionDetail `json:"dimensions"`
	Explanations [4]string                  `json:"explanations"`
	Strengths    []string                   `json:"strengths"`
	Weaknesses   []string                   `json:"weaknesses"`
}

// Handle processes the score_plan tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("plan_id", "")
	if id == "" {
		return mcp.NewToolResultError("'plan_id' is required"), nil
	}
	p, ok := t.plans[id]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("plan %q not found", id)), nil
	}

	u, err := profileFromRequest(req, t.logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid profile: %v", err)), nil
	}

	chain := t.builder.Build(p, u)
	res := scoreResult{
		PlanID:       id,
		Scores:       t.scorer.ScorePlan(p, u),
		Dimensions:   make(map[string]dimensionDetail, len(t.agents)),
		Explanations: chain.Explanations,
		Strengths:    chain.Strengths,
		Weaknesses:   chain.Weaknesses,
	}
	for _, a := range t.agents {
		res.Dimensions[a.Name()] = dimensionDetail{Score: a.Score(p, u), SubScores: a.SubScores(p, u)}
	}

	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal scores: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
