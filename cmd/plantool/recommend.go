package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"plantool/profile"
	"plantool/recommend"
)

type recommendFlags struct {
	data       string
	plans      string
	family     int
	adults     int
	children   int
	usage      string
	required   []string
	excludedOK []string
	costShare  string
	priority   string
	profile    string
	describe   string
	top        int
	format     string
	style      string
	output     string
	metrics    string
}

func recommendCmd(a *app) *cobra.Command {
	f := &recommendFlags{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank plans for a user profile",
		Example: `  # Basic recommendation
  plantool recommend --data data/sample.csv --family-size 4 --children 2

  # With required benefits
  plantool recommend --data data/sample.csv --family-size 2 \
    --required "Basic Dental Care - Adult" --required "Orthodontia - Child"

  # Profile from free text, JSON output, top 3
  plantool recommend --data plans.parquet --describe "family of 4 with 2 kids" --format json --top 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, a, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.data, "data", "d", "", "Benefits file (.csv, .csv.gz, .json, .parquet); defaults to data.file")
	fl.StringVar(&f.plans, "plans", "", "JSON allowlist of plan ids ([{\"plan_id\": ...}])")

	fl.IntVar(&f.family, "family-size", 0, "Total family size (adults + children)")
	fl.IntVar(&f.adults, "adults", 0, "Number of adults (default: family size - children)")
	fl.IntVar(&f.children, "children", 0, "Number of children")
	fl.StringVar(&f.usage, "expected-usage", string(profile.UsageMedium), "Expected healthcare usage (Low, Medium, High)")
	fl.StringArrayVar(&f.required, "required", nil, "Required benefit (repeatable)")
	fl.StringArrayVar(&f.excludedOK, "excluded-ok", nil, "Benefit the user does not need (repeatable)")
	fl.StringVar(&f.costShare, "preferred-cost-sharing", string(profile.PreferEither), "Preferred cost sharing (Copay, Coinsurance, Either)")
	fl.StringVar(&f.priority, "priority", "default", "Priority weighting (default, coverage, cost, balanced)")
	fl.StringVar(&f.profile, "profile", "", "Profile file (YAML or JSON) instead of profile flags")
	fl.StringVar(&f.describe, "describe", "", "Free-text profile description instead of profile flags")

	fl.IntVar(&f.top, "top", 0, "Limit to the top N plans (default: output.top_n, 0 = all)")
	fl.StringVar(&f.format, "format", "", "Output format (json, text, markdown); defaults to output.format")
	fl.StringVar(&f.style, "explanation-style", "", "Explanation detail (detailed, concise); defaults to output.style")
	fl.StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	fl.StringVar(&f.metrics, "metrics", "", "Write scoring metrics to this file in Prometheus text format")

	return cmd
}

func runRecommend(cmd *cobra.Command, a *app, f *recommendFlags) error {
	topN := a.cfg.Output.TopN
	if cmd.Flags().Changed("top") {
		if f.top < 1 {
			return errors.New("--top must be at least 1")
		}
		topN = f.top
	}

	formatName := f.format
	if formatName == "" {
		formatName = a.cfg.Output.Format
	}
	format, err := recommend.ParseFormat(formatName)
	if err != nil {
		return err
	}
	style, err := a.style(f.style)
	if err != nil {
		return err
	}

	u, err := buildProfile(cmd, f, a.logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	plans, err := a.loadPlans(ctx, f.data, f.plans)
	if err != nil {
		return err
	}

	engine := recommend.NewEngine(a.agentOptions(), style, a.cfg.Scoring.Workers)
	recs, err := engine.Recommend(ctx, plans, u, topN)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		a.logger.Warn("no recommendations found matching your criteria")
	}

	out, err := recommend.Render(format, recs, u)
	if err != nil {
		return err
	}

	if f.output != "" {
		if err := os.MkdirAll(filepath.Dir(f.output), 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := os.WriteFile(f.output, []byte(out+"\n"), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		a.logger.Info("output written", "path", f.output)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}

	if f.metrics != "" {
		if err := a.metrics.WriteFile(f.metrics); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// buildProfile resolves the profile from --profile, --describe or the
// individual profile flags, in that order.
func buildProfile(cmd *cobra.Command, f *recommendFlags, logger *slog.Logger) (*profile.UserProfile, error) {
	priorityChanged := cmd.Flags().Changed("priority")

	switch {
	case f.profile != "":
		in, err := profile.LoadInput(f.profile)
		if err != nil {
			return nil, err
		}
		if priorityChanged {
			if err := in.UsePreset(f.priority); err != nil {
				return nil, err
			}
		}
		return profile.FromInput(in, logger)

	case f.describe != "":
		u, err := profile.FromText(f.describe, logger)
		if err != nil {
			return nil, err
		}
		if priorityChanged {
			w, err := profile.Preset(f.priority)
			if err != nil {
				return nil, err
			}
			p := *u
			p.Priorities = w
			return profile.New(p)
		}
		return u, nil
	}

	if !cmd.Flags().Changed("family-size") {
		return nil, errors.New("--family-size is required unless --profile or --describe is given")
	}
	if f.family < 1 {
		return nil, errors.New("family size must be at least 1")
	}
	if f.children < 0 {
		return nil, errors.New("number of children cannot be negative")
	}
	adults := f.adults
	if !cmd.Flags().Changed("adults") {
		adults = f.family - f.children
	}
	if adults < 0 {
		return nil, errors.New("number of adults cannot be negative")
	}
	if adults+f.children != f.family {
		return nil, fmt.Errorf("family size mismatch: adults (%d) + children (%d) != family size (%d)",
			adults, f.children, f.family)
	}
	if _, err := profile.ParseUsage(f.usage); err != nil {
		return nil, err
	}
	if _, err := profile.ParseCostSharing(f.costShare); err != nil {
		return nil, err
	}

	in := &profile.Input{
		FamilySize:           &f.family,
		ChildrenCount:        &f.children,
		AdultsCount:          &adults,
		RequiredBenefits:     f.required,
		ExcludedBenefitsOK:   f.excludedOK,
		PreferredCostSharing: f.costShare,
		ExpectedUsage:        f.usage,
	}
	if err := in.UsePreset(f.priority); err != nil {
		return nil, err
	}
	return profile.FromInput(in, logger)
}
