package main

import (
	"myblog/config"
	"myblog/internal/app"
	"myblog/pkg/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo user and the sample post",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg := configFrom(cmd)
		if cfg.StorageType == config.StorageMemory {
			logger.FromContext(ctx).Warn("seeding in-memory storage has no lasting effect, use serve --seed")
		}

		a, err := app.NewApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Seed(ctx)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
