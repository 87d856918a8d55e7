// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the preferences file (TOML or YAML)",
		Value:   "config.toml",
	}
}

// initCommand writes the example preferences and prepares the run journal.
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "init",
		Aliases: []string{"setup"},
		Usage:   "Create the preferences file and the export journal",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Init,
	}
}

// pickCommand lists the albums of each category that no playlist references.
func pickCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "pick",
		Aliases: []string{"p"},
		Usage:   "Pick the albums from the music collection that are not in the playlists",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:    "browse",
				Aliases: []string{"b"},
				Usage:   "Browse the picked albums interactively",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Also write the picked albums to a file (.csv, .md, .json or .txt)",
			},
		},
		Action: r.Pick,
	}
}

// statsCommand reports song, album and duration totals.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "stats",
		Aliases: []string{"s"},
		Usage:   "Provide statistics of the music collection and the playlists",
		Flags:   []cli.Flag{configFlag()},
		Action:  r.Stats,
	}
}

// exportCommand copies or transcodes the playlist songs into the export root.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export the playlists in FLAC or in MP3",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation question",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format, overriding the preferences (flac or mp3)",
			},
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "Ignore nonzero encoder exit statuses",
			},
		},
		Action: r.Export,
	}
}

// historyCommand lists the journal of export runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List previous export runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of runs to list",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:  "delete",
				Usage: "Delete the run with the given ID instead of listing",
			},
		},
		Action: r.History,
	}
}
