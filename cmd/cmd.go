// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// command returns the root command. Running it without a subcommand starts the interactive extractor.
func (r *Runner) command() *cli.Command {
	return &cli.Command{
		Name:    "plx",
		Usage:   "Browse your Spotify playlists and export them to CSV",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file with CLIENT_ID and CLIENT_SECRET",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory CSV exports are written to (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.before,
		Action:   r.Interactive,
		Commands: r.register(),
	}
}

// browseCommand launches the full-screen playlist browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Browse playlists in a full-screen terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "File that receives logs while the UI is running",
				Value: "./tmp/plx-browse.log",
			},
		},
		Action: r.Browse,
	}
}

// historyCommand lists past exports.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previous CSV exports",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of exports to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Only show exports of this playlist",
			},
			&cli.BoolFlag{
				Name:  "prune",
				Usage: "Forget exports whose CSV file no longer exists",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.History,
	}
}

// setupCommand writes a starter config and initializes the history database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the export history database",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Roll back the latest migration before migrating",
			},
		},
		Action: r.Setup,
	}
}
