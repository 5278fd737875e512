// Package services implements the [PlaylistProvider] and [LyricsProvider] interfaces for Spotify and Genius.
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the client-credentials flow. The [oauth2.TokenSource] fetches and
// renews the app token transparently.
//
// Audio features and playlist search use the typed [spotify.Client]. Playlist items and recommendations
// are decoded into [models.TrackPayload] instead, where every field is optional: removed tracks arrive as
// null, local files have no id, and artist arrays may contain junk. Pagination follows the absolute
// "next" URL returned with each page.
//
// # Genius Implementation
//
// [GeniusService] finds a song with the search endpoint and scrapes its page with a colly collector.
// Lyrics live in one or more div[data-lyrics-container] blocks; line breaks become newlines, annotation
// widgets are dropped, and bracketed section headers ("[Chorus]") are optionally removed.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : client id, secret or token not configured
//   - [shared.ErrAuthFailed] : token request rejected
//   - [shared.ErrNotAuthenticated] : 401 from the API
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status ([StatusError])
//   - [shared.ErrPlaylistNotFound] : Playlist ID not found
//   - [shared.ErrFeaturesNotFound] : no audio features for a track
//   - [shared.ErrLyricsNotFound] : no usable Genius match
package services
