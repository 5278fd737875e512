// Spotify API implementation of [PlaylistProvider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/trackset/internal/models"
	"github.com/desertthunder/trackset/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	spotifyBaseURL   = "https://api.spotify.com/v1"
	defaultPageLimit = 100
)

// SpotifyOpts contains the client-credentials settings for [NewSpotifyService].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	TokenURL     string       // defaults to the Spotify accounts service
	APIURL       string       // defaults to https://api.spotify.com/v1
	PageLimit    int          // playlist page size, 1-100
	HTTPClient   *http.Client // base client used for token and API requests
}

// SpotifyService implements [PlaylistProvider] for the Spotify Web API.
//
// Requests are authenticated with the client-credentials flow. Typed endpoints (audio features, search) go through
// [spotify.Client]; playlist items and recommendations are decoded into [models.TrackPayload] so that removed tracks,
// local files and partial objects never fail a whole page.
type SpotifyService struct {
	tokens    oauth2.TokenSource
	api       *APIClient
	client    *spotify.Client
	pageLimit int
}

// NewSpotifyService creates a new Spotify service with the given client credentials.
func NewSpotifyService(ctx context.Context, opts SpotifyOpts) (*SpotifyService, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.APIURL == "" {
		opts.APIURL = spotifyBaseURL
	}
	if opts.PageLimit <= 0 || opts.PageLimit > defaultPageLimit {
		opts.PageLimit = defaultPageLimit
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	config := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}

	tokens := config.TokenSource(ctx)
	httpClient := oauth2.NewClient(ctx, tokens)
	baseURL := strings.TrimSuffix(opts.APIURL, "/")

	return &SpotifyService{
		tokens:    tokens,
		api:       NewAPIClient("spotify", baseURL, httpClient),
		client:    spotify.New(httpClient, spotify.WithBaseURL(baseURL+"/")),
		pageLimit: opts.PageLimit,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate fetches an access token up front so bad credentials fail before any work starts.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if _, err := s.tokens.Token(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return nil
}

type playlistItemsPage struct {
	Items []json.RawMessage `json:"items"`
	Next  *string           `json:"next"`
	Total int               `json:"total"`
}

// PlaylistItems retrieves the first page of a playlist's tracks.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) (*models.EntryPage, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d", url.PathEscape(playlistID), s.pageLimit)
	page, err := s.items(ctx, endpoint)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}
		return nil, err
	}
	return page, nil
}

// NextItems retrieves the page behind a next-page URL.
func (s *SpotifyService) NextItems(ctx context.Context, next string) (*models.EntryPage, error) {
	if next == "" {
		return nil, fmt.Errorf("%w: next page url", shared.ErrMissingArgument)
	}
	return s.items(ctx, next)
}

func (s *SpotifyService) items(ctx context.Context, endpoint string) (*models.EntryPage, error) {
	var response playlistItemsPage
	if err := s.api.GetJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	page := &models.EntryPage{
		Entries: models.DecodeEntries(response.Items),
		Total:   response.Total,
	}
	if response.Next != nil {
		page.Next = *response.Next
	}
	return page, nil
}

// AudioFeatures retrieves the audio features of a single track.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatureSet, error) {
	features, err := s.client.GetAudioFeatures(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if len(features) == 0 || features[0] == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrFeaturesNotFound, trackID)
	}

	f := features[0]
	return &models.AudioFeatureSet{
		Danceability:     float64(f.Danceability),
		Energy:           float64(f.Energy),
		Key:              int(f.Key),
		Loudness:         float64(f.Loudness),
		Mode:             int(f.Mode),
		Speechiness:      float64(f.Speechiness),
		Acousticness:     float64(f.Acousticness),
		Instrumentalness: float64(f.Instrumentalness),
		Liveness:         float64(f.Liveness),
		Valence:          float64(f.Valence),
		Tempo:            float64(f.Tempo),
		TimeSignature:    int(f.TimeSignature),
	}, nil
}

// SearchPlaylists searches playlists by free text. Null hits are returned as empty summaries.
func (s *SpotifyService) SearchPlaylists(ctx context.Context, query string, limit int) ([]models.PlaylistSummary, error) {
	if limit <= 0 {
		limit = 3
	}

	result, err := s.client.Search(ctx, query, spotify.SearchTypePlaylist, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if result.Playlists == nil {
		return nil, nil
	}

	summaries := make([]models.PlaylistSummary, 0, len(result.Playlists.Playlists))
	for _, p := range result.Playlists.Playlists {
		summaries = append(summaries, models.PlaylistSummary{
			ID:    string(p.ID),
			Name:  p.Name,
			Owner: p.Owner.DisplayName,
		})
	}
	return summaries, nil
}

// Recommendations retrieves tracks recommended for the given seeds.
func (s *SpotifyService) Recommendations(ctx context.Context, seeds models.Seeds, limit int) ([]models.TrackPayload, error) {
	if seeds.Empty() {
		return nil, fmt.Errorf("%w: at least one seed track, artist or genre", shared.ErrMissingArgument)
	}
	if limit <= 0 {
		limit = 50
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if len(seeds.Tracks) > 0 {
		params.Set("seed_tracks", strings.Join(seeds.Tracks, ","))
	}
	if len(seeds.Artists) > 0 {
		params.Set("seed_artists", strings.Join(seeds.Artists, ","))
	}
	if len(seeds.Genres) > 0 {
		params.Set("seed_genres", strings.Join(seeds.Genres, ","))
	}

	var response struct {
		Tracks []*models.TrackPayload `json:"tracks"`
	}
	if err := s.api.GetJSON(ctx, "/recommendations?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	tracks := make([]models.TrackPayload, 0, len(response.Tracks))
	for _, t := range response.Tracks {
		if t != nil {
			tracks = append(tracks, *t)
		}
	}
	return tracks, nil
}
