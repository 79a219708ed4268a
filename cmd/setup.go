package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/fretlog/internal/formatter"
	"github.com/desertthunder/fretlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the configuration template when none exists, then opens and migrates the record store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			r.config = config
			r.logger.Info("config file created", "path", configPath)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		version, err := shared.CurrentVersion(db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		r.logger.Info("migration rolled back", "schema_version", version)
		return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Rolled back to schema v%d", version)))
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	r.logger.Info("setup complete", "database", r.config.Database.Path, "schema_version", version)

	return r.writePlain("%s\n", formatter.Success(fmt.Sprintf("Database ready at %s (schema v%d)", r.config.Database.Path, version)))
}
