package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"plantool/agent"
	"plantool/config"
	"plantool/ingest"
	"plantool/metrics"
	"plantool/plan"
	"plantool/reasoning"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	a.metrics = metrics.New()
	return nil
}

func (a *app) agentOptions() agent.Options {
	return agent.Options{
		Logger:     a.logger,
		Metrics:    a.metrics,
		Thresholds: a.cfg.Scoring.Thresholds,
	}
}

func (a *app) ingestOptions(filter ingest.PlanFilter) ingest.Options {
	return ingest.Options{Logger: a.logger, Metrics: a.metrics, Filter: filter}
}

func (a *app) style(flag string) (reasoning.Style, error) {
	if flag == "" {
		flag = a.cfg.Output.Style
	}
	return reasoning.ParseStyle(flag)
}

// loadPlans reads benefit records from dataPath, or from the configured
// database when no file is given, and aggregates them into plans.
func (a *app) loadPlans(ctx context.Context, dataPath, filterPath string) ([]*plan.Plan, error) {
	var filter ingest.PlanFilter
	if filterPath != "" {
		f, err := ingest.LoadPlanFilter(filterPath)
		if err != nil {
			return nil, err
		}
		filter = f
	}

	if dataPath == "" {
		dataPath = a.cfg.Data.File
	}

	var records []plan.Benefit
	switch {
	case dataPath != "":
		a.logger.Info("loading plans", "path", dataPath)
		r, err := ingest.LoadFile(dataPath, a.ingestOptions(filter))
		if err != nil {
			return nil, err
		}
		records = r
	case a.cfg.Data.DatabaseURL != "":
		store, err := ingest.Connect(ctx, a.cfg.Data.DatabaseURL, a.logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		var ids []string
		for id := range filter {
			ids = append(ids, id)
		}
		if records, err = store.LoadBenefits(ctx, ids...); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("no data source: pass --data or set data.file / data.database_url")
	}

	if len(records) == 0 {
		return nil, errors.New("no plans found in data source")
	}
	plans, err := plan.Aggregate(records, a.logger)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, errors.New("no plans found in data source")
	}
	a.logger.Info("loaded plans", "plans", len(plans), "records", len(records))
	return plans, nil
}
