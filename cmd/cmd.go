// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log debug output, including every search query",
	}
}

// fetchFlags override the [download] section of the config file.
func fetchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "codec",
			Usage: "Audio codec (aac, alac, flac, m4a, mp3, opus, vorbis, wav)",
		},
		&cli.StringFlag{
			Name:  "quality",
			Usage: "Audio quality: 0 (best) to 10 (worst) VBR, or a bitrate such as 192K",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Silence provider output and progress lines",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory the audio files are written to",
		},
		&cli.BoolFlag{
			Name:  "no-tag",
			Usage: "Do not write ID3 tags into downloaded MP3 files",
		},
	}
}

// downloadCommand runs the pipeline for a single song
func downloadCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		configFlag(),
		verboseFlag(),
		&cli.StringSliceFlag{
			Name:    "artist",
			Aliases: []string{"a"},
			Usage:   "Artist name, repeat for several artists in order",
		},
		&cli.StringFlag{
			Name:    "title",
			Aliases: []string{"t"},
			Usage:   "Song title",
		},
		&cli.StringFlag{
			Name:  "album",
			Usage: "Album name, used for the fallback search",
		},
		&cli.StringFlag{
			Name:  "spotify",
			Usage: "Spotify track ID, URI or URL to read the song metadata from",
		},
	}

	return &cli.Command{
		Name:    "download",
		Aliases: []string{"dl"},
		Usage:   "Search for a song and download its audio",
		Flags:   append(flags, fetchFlags()...),
		Action:  r.Download,
	}
}

// batchCommand runs the pipeline for every song in a CSV manifest
func batchCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		configFlag(),
		verboseFlag(),
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "CSV manifest with artists;separated,title,album rows",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of songs processed at once",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a per-song report (CSV when the path ends in .csv, text otherwise)",
		},
	}

	return &cli.Command{
		Name:   "batch",
		Usage:  "Download every song listed in a manifest",
		Flags:  append(flags, fetchFlags()...),
		Action: r.Batch,
	}
}

// spotifyCommand handles Spotify metadata lookups
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify metadata operations",
		Commands: []*cli.Command{
			{
				Name:      "track",
				Usage:     "Show the artists, title and album of a Spotify track",
				ArgsUsage: "<id|uri|url>",
				Flags:     []cli.Flag{configFlag(), verboseFlag()},
				Action:    r.SpotifyTrack,
			},
		},
	}
}

// historyCommand lists recorded outcomes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent downloads",
		Flags: []cli.Flag{
			configFlag(),
			verboseFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of records to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "outcome",
				Usage: "Only show one outcome (skipped, downloaded, not_found, failed)",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV",
			},
		},
		Action: r.History,
	}
}

// setupCommand initializes local state
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the default template",
				Flags:  []cli.Flag{configFlag(), verboseFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the history database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					verboseFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
