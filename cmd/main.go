package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"myblog/config"
	"myblog/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "myblog",
	Short:         "Server-rendered blog with users, posts and comments",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	cfg := config.LoadConfig()
	log := logger.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)
	ctx = withConfig(ctx, cfg)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

type configKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(cmd *cobra.Command) config.Config {
	cfg, _ := cmd.Context().Value(configKey{}).(config.Config)
	return cfg
}
