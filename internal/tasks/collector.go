// package tasks implements the playlist collection pipeline.
//
// The core type is Collector, which walks a playlist, enriches every track with lyrics, and writes the dataset.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackset/internal/formatter"
	"github.com/desertthunder/trackset/internal/models"
	"github.com/desertthunder/trackset/internal/services"
	"github.com/desertthunder/trackset/internal/shared"
)

const (
	defaultSearchLimit    = 3
	defaultRecommendLimit = 50
)

// CollectResult contains the outcome of a collection run.
type CollectResult struct {
	RunID      string          // Unique id of this run
	Dataset    *models.Dataset // Records in playlist order
	OutputPath string          // CSV file written
	Entries    int             // Playlist entries returned by the walker
	Skipped    int             // Entries without a usable track
}

// CollectorOpts configures a [Collector].
type CollectorOpts struct {
	Spotify           services.PlaylistProvider
	Lyrics            services.LyricsProvider // nil disables lyrics lookups
	Logger            *log.Logger
	Throttle          Throttle // pause between playlist entries
	RecommendThrottle Throttle // pause between recommendation tracks
	Sleep             Sleeper  // defaults to a context-aware timer
}

// Collector runs the collection pipeline. It is strictly sequential.
type Collector struct {
	spotify           services.PlaylistProvider
	lyrics            services.LyricsProvider
	logger            *log.Logger
	throttle          Throttle
	recommendThrottle Throttle
	sleep             Sleeper
}

// DefaultThrottle pauses 2s after every 20th playlist entry.
func DefaultThrottle() Throttle {
	return Throttle{Every: 20, Pause: 2 * time.Second}
}

// DefaultRecommendThrottle pauses 1s after every 50th recommended track.
func DefaultRecommendThrottle() Throttle {
	return Throttle{Every: 50, Pause: time.Second}
}

// NewCollector creates a new Collector with the provided services.
func NewCollector(opts CollectorOpts) *Collector {
	c := &Collector{
		spotify:           opts.Spotify,
		lyrics:            opts.Lyrics,
		logger:            opts.Logger,
		throttle:          opts.Throttle,
		recommendThrottle: opts.RecommendThrottle,
		sleep:             opts.Sleep,
	}
	if c.logger == nil {
		c.logger = shared.NewLogger(nil)
	}
	if c.sleep == nil {
		c.sleep = sleep
	}
	return c
}

// sendProgress sends a progress update through the channel without blocking.
func (c *Collector) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FetchAllEntries returns every entry of a playlist in order, following next-page links until exhausted.
//
// Any page error fails the whole walk; partial results are never returned.
func (c *Collector) FetchAllEntries(ctx context.Context, playlistID string) ([]models.PlaylistEntry, error) {
	return c.fetchAllEntries(ctx, playlistID, nil)
}

func (c *Collector) fetchAllEntries(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) ([]models.PlaylistEntry, error) {
	if c.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	page, err := c.spotify.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}

	entries := append([]models.PlaylistEntry{}, page.Entries...)
	c.sendProgress(progress, pageUpdate(1, len(entries), page.Total))

	for n := 2; page.Next != ""; n++ {
		page, err = c.spotify.NextItems(ctx, page.Next)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d of playlist %s: %w", n, playlistID, err)
		}
		entries = append(entries, page.Entries...)
		c.sendProgress(progress, pageUpdate(n, len(entries), page.Total))
	}

	c.logger.Debug("fetched playlist entries", "playlist", playlistID, "count", len(entries))
	return entries, nil
}

// extractFields is the extractor BuildRecord runs under its recover; tests replace it.
var extractFields = baseRecord

// baseRecord extracts the eight base fields, substituting defaults for anything missing.
func baseRecord(tr *models.TrackPayload) models.TrackRecord {
	r := models.TrackRecord{
		ID:               tr.ID,
		Name:             models.UnknownTrack,
		AlbumName:        models.UnknownAlbum,
		AlbumReleaseDate: models.UnknownDate,
	}

	if tr.Name != nil {
		r.Name = *tr.Name
	}
	if tr.Popularity != nil {
		r.Popularity = *tr.Popularity
	}
	if tr.Explicit != nil {
		r.Explicit = *tr.Explicit
	}
	if tr.DurationMS != nil {
		r.DurationMS = *tr.DurationMS
	}
	if a := tr.Album; a != nil {
		if a.Name != nil {
			r.AlbumName = *a.Name
		}
		if a.ReleaseDate != nil {
			r.AlbumReleaseDate = *a.ReleaseDate
		}
	}

	names := make([]string, 0, len(tr.Artists))
	ids := make([]string, 0, len(tr.Artists))
	for _, a := range tr.Artists {
		name := models.UnknownArtist
		if a.Name != nil {
			name = *a.Name
		}
		names = append(names, name)

		if a.ID != nil && *a.ID != "" {
			ids = append(ids, *a.ID)
		}
	}
	r.ArtistNames = strings.Join(names, ", ")
	r.ArtistIDs = strings.Join(ids, ", ")
	return r
}

// BuildRecord turns a playlist entry into a dataset row with lyrics attached.
//
// Malformed entries, entries without a track and entries without an id yield nil, as does a panic while
// extracting fields.
func (c *Collector) BuildRecord(ctx context.Context, entry models.PlaylistEntry) (record *models.TrackRecord) {
	if entry.DecodeErr != nil {
		c.logger.Warn("skipping malformed entry", "err", entry.DecodeErr)
		return nil
	}
	tr := entry.Track
	if tr == nil {
		c.logger.Debug("skipping entry without track", "added_at", entry.AddedAt)
		return nil
	}
	if tr.ID == "" {
		c.logger.Debug("skipping track without id", "local", entry.IsLocal)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("failed to process track", "id", tr.ID, "err", r)
			record = nil
		}
	}()

	r := extractFields(tr)
	r.LyricsColumn = true
	if r.ArtistNames != "" && r.Name != models.UnknownTrack {
		r.Lyrics = c.FindLyrics(ctx, r.ArtistNames, r.Name)
	}
	return &r
}

// FindLyrics looks up lyrics for a song. Every failure is logged and reported as nil.
func (c *Collector) FindLyrics(ctx context.Context, artist, title string) (lyrics *string) {
	if c.lyrics == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("lyrics lookup panicked", "title", title, "artist", artist, "err", r)
			lyrics = nil
		}
	}()

	text, err := c.lyrics.FindLyrics(ctx, artist, title)
	if err != nil {
		c.logger.Warn("failed to fetch lyrics", "title", title, "artist", artist, "err", err)
		return nil
	}
	return &text
}

// FetchFeatures retrieves the audio features of a track, or nil when they cannot be fetched.
func (c *Collector) FetchFeatures(ctx context.Context, trackID string) *models.AudioFeatureSet {
	if c.spotify == nil || trackID == "" {
		return nil
	}

	features, err := c.spotify.AudioFeatures(ctx, trackID)
	if err != nil {
		c.logger.Warn("failed to fetch audio features", "id", trackID, "err", err)
		return nil
	}
	return features
}

// Collect walks a playlist, enriches each track and writes the dataset to outputPath as CSV.
func (c *Collector) Collect(ctx context.Context, playlistID, outputPath string, progress chan<- ProgressUpdate) (*CollectResult, error) {
	result := &CollectResult{RunID: shared.GenerateID(), OutputPath: outputPath}
	logger := shared.WithLogger(c.logger, "run", shared.ShortID(result.RunID), "playlist", playlistID)

	fail := func(err error) (*CollectResult, error) {
		c.sendProgress(progress, failedUpdate(err))
		logger.Error("collection failed", "err", err)
		return nil, err
	}

	if outputPath == "" {
		return fail(fmt.Errorf("%w: output path", shared.ErrMissingArgument))
	}

	c.sendProgress(progress, paginatingUpdate(playlistID))
	entries, err := c.fetchAllEntries(ctx, playlistID, progress)
	if err != nil {
		return fail(err)
	}
	result.Entries = len(entries)
	logger.Info("fetched playlist", "entries", len(entries))

	records := make([]models.TrackRecord, 0, len(entries))
	for i, entry := range entries {
		r := c.BuildRecord(ctx, entry)
		c.sendProgress(progress, enrichingUpdate(i+1, len(entries), r))

		if r != nil {
			records = append(records, *r)
		} else {
			result.Skipped++
		}

		if c.throttle.Due(i) {
			logger.Info(fmt.Sprintf("processed %d tracks", i))
			if err := c.sleep(ctx, c.throttle.Pause); err != nil {
				return fail(err)
			}
		}
	}

	result.Dataset = models.NewDataset(records)

	c.sendProgress(progress, writingUpdate(outputPath, len(records)))
	if err := formatter.WriteDatasetCSV(result.Dataset, outputPath); err != nil {
		return fail(err)
	}

	rows, cols := result.Dataset.Shape()
	logger.Info("saved dataset", "path", outputPath, "rows", rows, "columns", cols, "skipped", result.Skipped)
	c.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// Recommend fetches tracks seeded by seeds and attaches their audio features.
func (c *Collector) Recommend(ctx context.Context, seeds models.Seeds, limit int) ([]models.TrackRecord, error) {
	if c.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	tracks, err := c.spotify.Recommendations(ctx, seeds, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	records := make([]models.TrackRecord, 0, len(tracks))
	for i := range tracks {
		tr := &tracks[i]
		if tr.ID == "" {
			c.logger.Debug("skipping recommendation without id", "index", i)
			continue
		}

		r := baseRecord(tr)
		r.Features = c.FetchFeatures(ctx, tr.ID)
		records = append(records, r)

		if c.recommendThrottle.Due(i) {
			c.logger.Info(fmt.Sprintf("processed %d recommendations", i))
			if err := c.sleep(ctx, c.recommendThrottle.Pause); err != nil {
				return nil, err
			}
		}
	}

	c.logger.Info("fetched recommendations", "count", len(records))
	return records, nil
}

// SearchPlaylists resolves a free-text query to a playlist id, returning "" when nothing usable is found.
// Provider errors are logged rather than returned.
func (c *Collector) SearchPlaylists(ctx context.Context, query string, limit int) (string, []models.PlaylistSummary) {
	if c.spotify == nil {
		c.logger.Error("Spotify service not initialized")
		return "", nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits, err := c.spotify.SearchPlaylists(ctx, query, limit)
	if err != nil {
		c.logger.Error("failed to search playlists", "query", query, "err", err)
		return "", nil
	}
	if len(hits) == 0 {
		c.logger.Warn("no playlists found for query", "query", query)
		return "", nil
	}

	for _, h := range hits {
		if h.Valid() {
			return h.ID, hits
		}
	}

	c.logger.Warn("no valid playlists found for query", "query", query)
	return "", hits
}
