package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/goride/admin-api/internal/pkg/config"
	"github.com/goride/admin-api/pkg/logger"
)

// Global flags available to all subcommands.
var envFile string

// NewRootCmd creates the root command for the GoRide admin CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goride",
		Short: "GoRide admin API",
		Long: `GoRide admin API serves login, signup and password reset for admins,
customers and drivers, plus profile management and the ride catalogue.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file applied before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewHashPasswordCmd())

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig reads the configuration and initialises the process logger.
func loadConfig(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return nil, zerolog.Nop(), oops.Code("CONFIG_INVALID").Wrap(err)
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "goride-admin-api",
	})
	return cfg, log, nil
}
