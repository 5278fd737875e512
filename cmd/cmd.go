// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are read by [Runner.Before] and inherited by every command
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a dotenv file with API credentials",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

// collectCommand builds the playlist dataset
func collectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "collect",
		Usage: "Collect metadata and lyrics for every track of a playlist into a CSV dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Spotify playlist ID",
			},
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Search for a playlist and use the first valid hit",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path (defaults to collector.output)",
			},
			&cli.StringFlag{
				Name:  "genius-token",
				Usage: "Genius API access token (overrides GENIUS_ACCESS_TOKEN)",
			},
			&cli.StringSliceFlag{
				Name:  "genres",
				Usage: "Also write a recommendations dataset seeded by these genres",
			},
			&cli.IntFlag{
				Name:  "preview",
				Usage: "Print the first N rows of the dataset",
				Value: 5,
			},
		},
		Action: r.Collect,
	}
}

// searchCommand lists playlists matching a query
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search Spotify playlists",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to return (defaults to collector.search_limit)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// recommendCommand builds a recommendations dataset with audio features
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Collect recommended tracks with audio features into a CSV dataset",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "genres",
				Usage: "Seed genres",
			},
			&cli.StringSliceFlag{
				Name:  "seed-tracks",
				Usage: "Seed track IDs",
			},
			&cli.StringSliceFlag{
				Name:  "seed-artists",
				Usage: "Seed artist IDs",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of recommendations (defaults to collector.recommend_limit)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output CSV path",
				Value:   "data/raw/recommendations.csv",
			},
		},
		Action: r.Recommend,
	}
}

// featuresCommand prints the audio features of one track
func featuresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Show audio features for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Features,
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize local configuration",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example config.toml to the --config path",
				Action: r.SetupConfig,
			},
		},
	}
}
