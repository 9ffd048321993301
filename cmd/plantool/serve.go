package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"plantool/mcpserver"
)

func serveCmd(a *app) *cobra.Command {
	var data, plans, style string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommend_plans and score_plan as MCP tools over stdio",
		Long: `serve loads the plan catalog once and exposes it to MCP clients over stdio.
Logs go to stderr so they do not interfere with the stdio transport.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.style(style)
			if err != nil {
				return err
			}
			catalog, err := a.loadPlans(cmd.Context(), data, plans)
			if err != nil {
				return err
			}
			s, err := mcpserver.New(mcpserver.Config{
				Version: Version,
				Plans:   catalog,
				Agent:   a.agentOptions(),
				Style:   st,
				Workers: a.cfg.Scoring.Workers,
			})
			if err != nil {
				return err
			}
			return server.ServeStdio(s)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "Benefits file; defaults to data.file")
	cmd.Flags().StringVar(&plans, "plans", "", "JSON allowlist of plan ids")
	cmd.Flags().StringVar(&style, "explanation-style", "", "Explanation detail (detailed, concise)")
	return cmd
}
