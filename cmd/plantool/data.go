package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"plantool/ingest"
)

func convertCmd(a *app) *cobra.Command {
	var plans string

	cmd := &cobra.Command{
		Use:   "convert <input> <output.parquet>",
		Short: "Convert a CSV or JSON benefits file to Parquet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter ingest.PlanFilter
			if plans != "" {
				f, err := ingest.LoadPlanFilter(plans)
				if err != nil {
					return err
				}
				filter = f
			}
			n, err := ingest.ConvertFile(args[0], args[1], a.ingestOptions(filter))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", n, args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&plans, "plans", "", "JSON allowlist of plan ids to keep")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	var (
		dbURL     string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "import <input>",
		Short: "Load a CSV, JSON or Parquet benefits file into PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbURL == "" {
				dbURL = a.cfg.Data.DatabaseURL
			}
			if dbURL == "" {
				return errors.New("no database: pass --database-url or set data.database_url")
			}
			if batchSize < 1 {
				batchSize = a.cfg.Data.BatchSize
			}

			ctx := cmd.Context()
			store, err := ingest.Connect(ctx, dbURL, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			r, err := ingest.Open(args[0], a.ingestOptions(nil))
			if err != nil {
				return err
			}
			defer r.Close()

			n, err := store.Import(ctx, r, batchSize)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbURL, "database-url", "", "PostgreSQL connection string; defaults to data.database_url")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per transaction; defaults to data.batch_size")
	return cmd
}
