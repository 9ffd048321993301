package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"plantool/plan"
	"plantool/recommend"
)

const defaultTopN = 5

// RecommendTool handles the recommend_plans MCP tool.
type RecommendTool struct {
	plans  []*plan.Plan
	engine *recommend.Engine
	logger *slog.Logger
}

func NewRecommendTool(plans []*plan.Plan, engine *recommend.Engine, logger *slog.Logger) *RecommendTool {
	return &RecommendTool{plans: plans, engine: engine, logger: logger}
}

// Definition returns the MCP tool definition for recommend_plans.
func (t *RecommendTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription(
			"Rank the loaded dental/health plans for a user profile and explain each recommendation "+
				"with coverage, cost, limit and exclusion analysis.",
		),
		mcp.WithNumber("top_n",
			mcp.Description("Number of plans to return (default: 5)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format (default: markdown)"),
			mcp.Enum("markdown", "text", "json"),
			mcp.DefaultString("markdown"),
		),
	}, profileOptions()...)
	return mcp.NewTool("recommend_plans", opts...)
}

// Handle processes the recommend_plans tool call.
func (t *RecommendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := profileFromRequest(req, t.logger)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid profile: %v", err)), nil
	}

	topN := defaultTopN
	if n := intArg(req, "top_n"); n != nil {
		topN = *n
	}
	if topN < 1 {
		return mcp.NewToolResultError("'top_n' must be at least 1"), nil
	}

	format, err := recommend.ParseFormat(req.GetString("format", string(recommend.FormatMarkdown)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recs, err := t.engine.Recommend(ctx, t.plans, u, topN)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	out, err := recommend.Render(format, recs, u)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
