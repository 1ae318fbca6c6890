package main

import (
	"errors"

	"myblog/config"
	"myblog/migrations"
	"myblog/pkg/logger"

	"github.com/spf13/cobra"
)

var errNotPostgres = errors.New("migrations need STORAGE_TYPE=postgres")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := configFrom(cmd)
		if cfg.StorageType != config.StoragePostgres {
			return errNotPostgres
		}
		return migrations.Up(cfg.Postgres.GetDSN(), logger.FromContext(cmd.Context()))
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := configFrom(cmd)
		if cfg.StorageType != config.StoragePostgres {
			return errNotPostgres
		}
		steps, _ := cmd.Flags().GetInt("steps")
		return migrations.Down(cfg.Postgres.GetDSN(), steps, logger.FromContext(cmd.Context()))
	},
}

func init() {
	migrateDownCmd.Flags().Int("steps", 1, "number of migrations to roll back, 0 for all")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}
