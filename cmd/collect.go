package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/trackset/internal/formatter"
	"github.com/desertthunder/trackset/internal/models"
	"github.com/desertthunder/trackset/internal/shared"
	"github.com/desertthunder/trackset/internal/tasks"
	"github.com/desertthunder/trackset/internal/ui"
	"github.com/urfave/cli/v3"
)

const noPlaylistMessage = "No playlist ID provided or found. Use --playlist or --search"

// Collect walks a playlist (given or found by search), enriches it with lyrics and writes the dataset.
func (r *Runner) Collect(ctx context.Context, cmd *cli.Command) error {
	if token := cmd.String("genius-token"); token != "" {
		r.config.Credentials.Genius.AccessToken = token
	}
	output := cmd.String("output")
	if output == "" {
		output = r.config.Collector.Output
	}

	if r.spotify == nil || r.lyrics == nil {
		if err := r.config.Validate(); err != nil {
			return err
		}
	}

	collector, err := r.collector(ctx, true)
	if err != nil {
		return err
	}

	playlistID := cmd.String("playlist")
	if playlistID == "" {
		if query := cmd.String("search"); query != "" {
			var hits []models.PlaylistSummary
			playlistID, hits = collector.SearchPlaylists(ctx, query, r.config.Collector.SearchLimit)
			r.printPlaylists(hits)
		}
	}
	if playlistID == "" {
		r.writePlain("%s\n", noPlaylistMessage)
		return nil
	}

	r.logger.Info("starting collection", "playlist", playlistID, "output", output)
	r.writePlain("Collecting playlist %s...\n\n", playlistID)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Paginating:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Enriching:
				r.writePlain("   %s\n", update.Message)
			case tasks.Writing:
				r.writePlain("\n💾 %s\n", update.Message)
			}
		}
	}()

	result, err := collector.Collect(ctx, playlistID, output, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		r.writePlain("\n%s\n", ui.Styles.Err("✗ Collection failed"))
		return err
	}

	rows, cols := result.Dataset.Shape()
	r.writePlain("\n")
	r.writePlainHeader("Collection Complete!")
	r.writePlain("Run: %s\n", result.RunID)
	r.writePlain("Entries: %d (%d skipped)\n", result.Entries, result.Skipped)
	r.writePlain("Dataset: %d rows x %d columns\n", rows, cols)
	r.writePlain("%s\n", ui.Styles.OK("✓ Saved to "+result.OutputPath))

	if n := cmd.Int("preview"); n > 0 {
		r.writePlain("\n%s\n", ui.RenderPreview(result.Dataset, n))
	}

	if genres := cmd.StringSlice("genres"); len(genres) > 0 {
		path := formatter.RecommendationsPath(output)
		if err := r.writeRecommendations(ctx, collector, models.Seeds{Genres: genres}, 0, path); err != nil {
			return err
		}
	}
	return nil
}

// Search prints the playlists matching a query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.Collector.SearchLimit
	}

	spotify, err := r.playlistProvider(ctx)
	if err != nil {
		return err
	}

	hits, err := spotify.SearchPlaylists(ctx, query, limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(hits, true)
	}
	if len(hits) == 0 {
		r.writePlain("%s\n", ui.Styles.Warn("No playlists found for "+query))
		return nil
	}
	r.printPlaylists(hits)
	return nil
}

func (r *Runner) printPlaylists(hits []models.PlaylistSummary) {
	if len(hits) == 0 {
		return
	}

	r.writePlain("Found playlists:\n")
	for i, h := range hits {
		if !h.Valid() {
			r.writePlain("%d. [Invalid playlist item]\n", i+1)
			continue
		}
		r.writePlain("%d. %s by %s - %s\n", i+1, h.Name, h.Owner, h.ID)
	}
	r.writePlain("\n")
}

// Recommend writes a recommendations dataset with audio features.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	seeds := models.Seeds{
		Tracks:  cmd.StringSlice("seed-tracks"),
		Artists: cmd.StringSlice("seed-artists"),
		Genres:  cmd.StringSlice("genres"),
	}
	if seeds.Empty() {
		return fmt.Errorf("%w: at least one of --genres, --seed-tracks or --seed-artists", shared.ErrMissingArgument)
	}

	collector, err := r.collector(ctx, false)
	if err != nil {
		return err
	}
	return r.writeRecommendations(ctx, collector, seeds, cmd.Int("limit"), cmd.String("output"))
}

func (r *Runner) writeRecommendations(ctx context.Context, collector *tasks.Collector, seeds models.Seeds, limit int, path string) error {
	if limit <= 0 {
		limit = r.config.Collector.RecommendLimit
	}

	r.logger.Info("fetching recommendations", "genres", strings.Join(seeds.Genres, ","), "limit", limit)
	records, err := collector.Recommend(ctx, seeds, limit)
	if err != nil {
		return err
	}

	ds := models.NewDataset(records)
	if err := formatter.WriteDatasetCSV(ds, path); err != nil {
		return err
	}

	rows, cols := ds.Shape()
	r.writePlain("%s\n", ui.Styles.OK(fmt.Sprintf("✓ Saved %d recommendations (%d columns) to %s", rows, cols, path)))
	return nil
}

// Features prints the audio features of a single track.
func (r *Runner) Features(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	spotify, err := r.playlistProvider(ctx)
	if err != nil {
		return err
	}

	features, err := spotify.AudioFeatures(ctx, trackID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(features, true)
	}

	r.writePlainHeader("Audio features: " + trackID)
	values := models.TrackRecord{Features: features}.Values()
	for _, col := range models.FeatureColumns {
		r.writePlain("%-17s %s\n", col, values[col])
	}
	return nil
}
