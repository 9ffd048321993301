package mcpserver

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"plantool/agent"
	"plantool/plan"
	"plantool/reasoning"
	"plantool/recommend"
)

// Config wires the server to a loaded plan catalog.
type Config struct {
	Version string
	Plans   []*plan.Plan
	Agent   agent.Options
	Style   reasoning.Style
	Workers int
}

// New creates the MCP server with recommend_plans and score_plan registered.
func New(cfg Config) (*server.MCPServer, error) {
	if cfg.Agent.Logger == nil {
		cfg.Agent.Logger = slog.Default()
	}
	index, err := plan.Index(cfg.Plans)
	if err != nil {
		return nil, fmt.Errorf("index plans: %w", err)
	}

	s := server.NewMCPServer(
		"plantool",
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions(len(cfg.Plans))),
	)

	engine := recommend.NewEngine(cfg.Agent, cfg.Style, cfg.Workers)
	recommendTool := NewRecommendTool(cfg.Plans, engine, cfg.Agent.Logger)
	s.AddTool(recommendTool.Definition(), recommendTool.Handle)

	scoreTool := NewScoreTool(index, cfg.Agent, cfg.Style)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	cfg.Agent.Logger.Info("mcp server ready", "plans", len(cfg.Plans))
	return s, nil
}

func instructions(plans int) string {
	return fmt.Sprintf(`You have access to plantool, which ranks %d loaded insurance plans for a user.

Use recommend_plans when the user wants to compare or choose plans. Pass either a
free-text description or structured fields (family_size, children_count,
required_benefits, ...). Use score_plan to explain how a single plan scores.

Scores are in [0,1]; higher is better. Benefit names must match the plan's
benefit names; case and spacing are ignored, partial names do not match.`, plans)
}
