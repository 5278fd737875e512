package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackset/internal/shared"
	"github.com/desertthunder/trackset/internal/ui"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the embedded example config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	r.writePlain("%s\n", ui.Styles.OK("✓ Config file created: "+configPath))
	r.writePlainln("Next steps:")
	r.writePlain("1. Set %s and %s (Spotify app credentials)\n", shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret)
	r.writePlain("2. Set %s (Genius API client access token)\n", shared.EnvGeniusAccessToken)
	r.writePlain("3. Run 'trackset collect --playlist <id>'\n")
	return nil
}
