package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/songdl/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default config file to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Add credentials.spotify client_id and client_secret to use --spotify\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
//
// A missing config file is created from the template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if r.config == nil {
		exists, err := shared.FileExists(configPath)
		if err != nil {
			return fmt.Errorf("failed to check config file: %w", err)
		}
		if !exists {
			r.logger.Info("config file not found, creating from template", "path", configPath)
			if err := shared.CreateConfigFile(configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			}
		}
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("rollback") {
		return r.rollbackDatabase(config)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenHistoryDatabase(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s (schema version %d)\n", config.Database.Path, version)
	return nil
}

func (r *Runner) rollbackDatabase(config *shared.Config) error {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}
	r.logger.Info("rolled back latest migration", "path", config.Database.Path)
	r.writePlain("✓ Rolled back latest migration on %s\n", config.Database.Path)
	return nil
}
