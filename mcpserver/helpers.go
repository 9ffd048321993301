// Package mcpserver exposes the recommender as MCP tools over stdio.
//
// Each tool follows the same shape:
// - a struct with its dependencies injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
package mcpserver

import (
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"plantool/profile"
)

// profileOptions adds the profile parameters shared by every tool.
func profileOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description",
			mcp.Description("Free-text description of the family and needs (e.g. 'family of 4 with 2 kids who need orthodontia'). When set, the structured fields below are ignored."),
		),
		mcp.WithNumber("family_size",
			mcp.Description("Total number of people to cover"),
		),
		mcp.WithNumber("children_count",
			mcp.Description("Number of children"),
		),
		mcp.WithNumber("adults_count",
			mcp.Description("Number of adults"),
		),
		mcp.WithString("expected_usage",
			mcp.Description("Expected healthcare use (inferred when omitted)"),
			mcp.Enum("Low", "Medium", "High"),
		),
		mcp.WithString("required_benefits",
			mcp.Description("Comma-separated benefit names the plan must cover"),
		),
		mcp.WithString("excluded_benefits_ok",
			mcp.Description("Comma-separated benefit names the user does not need"),
		),
		mcp.WithString("preferred_cost_sharing",
			mcp.Description("Preferred cost-sharing method (default: Either)"),
			mcp.Enum("Copay", "Coinsurance", "Either"),
		),
		mcp.WithString("priority",
			mcp.Description("Weight preset; inferred from the profile when omitted"),
			mcp.Enum("default", "coverage", "cost", "balanced"),
		),
	}
}

// intArg extracts an integer argument, returning nil if the key is missing or
// not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string) *int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return nil
	}
	i := int(v)
	return &i
}

func listArg(req mcp.CallToolRequest, key string) []string {
	var out []string
	for _, s := range strings.Split(req.GetString(key, ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// profileFromRequest builds a validated profile from the tool arguments.
func profileFromRequest(req mcp.CallToolRequest, logger *slog.Logger) (*profile.UserProfile, error) {
	if text := strings.TrimSpace(req.GetString("description", "")); text != "" {
		return profile.FromText(text, logger)
	}

	in := &profile.Input{
		FamilySize:           intArg(req, "family_size"),
		ChildrenCount:        intArg(req, "children_count"),
		AdultsCount:          intArg(req, "adults_count"),
		RequiredBenefits:     listArg(req, "required_benefits"),
		ExcludedBenefitsOK:   listArg(req, "excluded_benefits_ok"),
		PreferredCostSharing: req.GetString("preferred_cost_sharing", ""),
		ExpectedUsage:        req.GetString("expected_usage", ""),
	}
	if preset := req.GetString("priority", ""); preset != "" {
		if err := in.UsePreset(preset); err != nil {
			return nil, err
		}
	}
	return profile.FromInput(in, logger)
}
