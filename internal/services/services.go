// package services defines the provider interfaces used by a collection run
//
// Spotify (playlists, audio features, search, recommendations), Genius (lyrics)
package services

import (
	"context"

	"github.com/desertthunder/trackset/internal/models"
)

// PlaylistProvider is the music catalog a collection run reads from.
type PlaylistProvider interface {
	// PlaylistItems returns the first page of a playlist's entries.
	PlaylistItems(ctx context.Context, playlistID string) (*models.EntryPage, error)

	// NextItems follows the next-page URL returned with a previous page.
	NextItems(ctx context.Context, next string) (*models.EntryPage, error)

	// AudioFeatures returns the audio descriptors of a single track.
	AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatureSet, error)

	// SearchPlaylists returns up to limit playlists matching a free-text query.
	SearchPlaylists(ctx context.Context, query string, limit int) ([]models.PlaylistSummary, error)

	// Recommendations returns up to limit tracks seeded by tracks, artists or genres.
	Recommendations(ctx context.Context, seeds models.Seeds, limit int) ([]models.TrackPayload, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// LyricsProvider looks up song lyrics by artist and title.
type LyricsProvider interface {
	// FindLyrics returns the lyrics of the best match, or an error wrapping [shared.ErrLyricsNotFound].
	FindLyrics(ctx context.Context, artist, title string) (string, error)

	// Name returns the name of the service (e.g., "Genius")
	Name() string
}
