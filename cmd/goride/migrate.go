package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables or indexes for the configured store",
		Long: `Create the account and ride tables (MySQL, SQLite) or the unique indexes
(MongoDB) for the configured STORE_DRIVER. With --seed, an empty ride
catalogue is filled with the default rides.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "seed the ride catalogue when it is empty")
	return cmd
}

func runMigrate(cmd *cobra.Command, seed bool) error {
	ctx, cancel := context.WithTimeout(commandContext(cmd), 2*time.Minute)
	defer cancel()

	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	res := &resources{}
	defer res.Close(context.Background(), log)

	cmd.Println("Connecting to database...")
	st, err := openStores(ctx, cfg, res)
	if err != nil {
		return err
	}

	cmd.Println("Running migrations...")
	if err := st.prepare(ctx); err != nil {
		return oops.Code("MIGRATION_FAILED").With("store", cfg.StoreDriver).Wrap(err)
	}

	if seed {
		n, err := st.seedRides(ctx)
		if err != nil {
			return oops.Code("SEED_FAILED").With("store", cfg.StoreDriver).Wrap(err)
		}
		cmd.Printf("Seeded %d rides\n", n)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
