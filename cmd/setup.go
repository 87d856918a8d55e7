package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/audious/internal/shared"
	"github.com/urfave/cli/v3"
)

// Init writes the example preferences when none exist, then creates the export journal and runs its
// migrations.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file found, keeping it", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Preferences written to %s\n", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return shared.ConfigError("%v", err)
	}

	if config.Journal.Path == "" {
		r.logger.Info("journal disabled, skipping database setup")
		return nil
	}

	r.logger.Info("initializing journal", "path", config.Journal.Path)
	db, err := shared.OpenJournal(config.Journal.Path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer db.Close()

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read journal version: %w", err)
	}
	r.logger.Infof("setup complete for journal: %v (version %d)", config.Journal.Path, version)
	r.writePlain("✓ Journal ready at %s\n", config.Journal.Path)
	r.writePlain("Next steps:\n")
	r.writePlain("1. Edit %s with the paths of your collection and categories\n", configPath)
	r.writePlain("2. Run 'audious pick' to find the albums missing from your playlists\n")
	return nil
}
