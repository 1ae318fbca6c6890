package main

import (
	"fmt"

	"myblog/config"
	"myblog/internal/app"
	"myblog/migrations"
	"myblog/pkg/logger"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().Bool("seed", false, "create the demo user and sample post on start")
		c.Flags().Bool("migrate", false, "apply pending migrations on start (postgres only)")
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := configFrom(cmd)
	log := logger.FromContext(ctx)

	if ok, _ := cmd.Flags().GetBool("migrate"); ok && cfg.StorageType == config.StoragePostgres {
		if err := migrations.Up(cfg.Postgres.GetDSN(), log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	if ok, _ := cmd.Flags().GetBool("seed"); ok {
		if err := a.Seed(ctx); err != nil {
			a.Close()
			return fmt.Errorf("seed: %w", err)
		}
	}

	return a.Run(ctx)
}
