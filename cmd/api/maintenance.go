package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/hirely-app/hirely-api/internal/auth"
	"github.com/hirely-app/hirely-api/internal/config"
	"github.com/hirely-app/hirely-api/internal/database"
	"github.com/hirely-app/hirely-api/internal/logging"
)

// openForMaintenance loads config and opens the database for one-shot commands.
func openForMaintenance() (*bun.DB, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, logger, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetBool("seed")

	db, logger, err := openForMaintenance()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	if err := database.CreateSchema(ctx, db); err != nil {
		return err
	}
	logger.Info("schema up to date")

	if seed {
		if err := database.SeedReferenceData(ctx, db); err != nil {
			return err
		}
		logger.Info("reference data seeded")
	}

	return nil
}

func runPruneResets(cmd *cobra.Command, args []string) error {
	db, logger, err := openForMaintenance()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	deleted, err := auth.NewPasswordResetRepository(db).DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}

	logger.Info("expired password reset codes removed", "count", deleted)
	return nil
}
