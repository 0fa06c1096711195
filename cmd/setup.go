package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/plx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the template when missing, then initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); errors.Is(err, fs.ErrNotExist) {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				return err
			}
			r.writePlain("✓ Created %s\n", r.configPath)
		} else {
			r.logger.Info("using existing config", "path", r.configPath)
		}
	}

	path, err := r.config.DatabasePath()
	if err != nil {
		return err
	}
	r.logger.Info("initializing database", "path", path)

	if cmd.Bool("reset") {
		if err := r.resetHistory(path); err != nil {
			return err
		}
	}

	db, err := shared.OpenHistory(r.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r.writePlain("✓ Export history ready at %s\n", path)
	if r.config.Validate() != nil {
		r.writePlainln("Next steps:")
		r.writePlain("1. Set %s and %s in .env or %s\n", shared.ClientIDEnv[0], shared.ClientSecretEnv[0], r.configPathOrDefault())
		r.writePlain("2. Register %s as a redirect URI for your Spotify app\n", r.config.RedirectURI())
		r.writePlain("3. Run 'plx' to start exporting\n")
	}
	return nil
}

// resetHistory rolls back the latest migration of an existing database.
func (r *Runner) resetHistory(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r.logger.Warn("rolling back latest migration", "path", path)
	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

func (r *Runner) configPathOrDefault() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}
