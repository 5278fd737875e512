// package models defines the records that flow through a playlist collection run
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Default values substituted for missing track fields.
const (
	UnknownTrack  = "Unknown Track"
	UnknownAlbum  = "Unknown Album"
	UnknownDate   = "Unknown Date"
	UnknownArtist = "Unknown Artist"
)

// PlaylistEntry is one slot of a playlist. Track is nil when the slot references a removed or unavailable track.
type PlaylistEntry struct {
	AddedAt string        `json:"added_at"`
	IsLocal bool          `json:"is_local"`
	Track   *TrackPayload `json:"track"`

	// DecodeErr is set when the item could not be decoded. Track is nil in that case.
	DecodeErr error `json:"-"`
}

// DecodeEntries decodes playlist items one at a time. An item that fails to decode becomes an entry with no
// track and a DecodeErr naming its position and track id, so a malformed track never fails its page.
func DecodeEntries(items []json.RawMessage) []PlaylistEntry {
	entries := make([]PlaylistEntry, 0, len(items))
	for i, raw := range items {
		var e PlaylistEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			entries = append(entries, PlaylistEntry{
				DecodeErr: fmt.Errorf("item %d (track %q): %w", i, rawTrackID(raw), err),
			})
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// rawTrackID digs the track id out of an item that does not decode as a whole.
func rawTrackID(raw json.RawMessage) string {
	var item struct {
		Track json.RawMessage `json:"track"`
	}
	if err := json.Unmarshal(raw, &item); err != nil || !isObject(item.Track) {
		return ""
	}
	var track map[string]json.RawMessage
	if err := json.Unmarshal(item.Track, &track); err != nil {
		return ""
	}
	var id string
	json.Unmarshal(track["id"], &id)
	return id
}

// EntryPage is one page of playlist entries. Next is the absolute URL of the following page, empty on the last page.
type EntryPage struct {
	Entries []PlaylistEntry
	Next    string
	Total   int
}

// TrackPayload is a loosely decoded track object. Every field except ID may be absent.
type TrackPayload struct {
	ID         string          `json:"-"`
	Name       *string         `json:"name"`
	Popularity *int            `json:"popularity"`
	Explicit   *bool           `json:"explicit"`
	DurationMS *int            `json:"duration_ms"`
	Album      *AlbumPayload   `json:"album"`
	Artists    []ArtistPayload `json:"-"`
}

// AlbumPayload is the album part of a [TrackPayload].
type AlbumPayload struct {
	Name        *string `json:"name"`
	ReleaseDate *string `json:"release_date"`
}

// ArtistPayload is one well-formed artist object of a [TrackPayload].
type ArtistPayload struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// UnmarshalJSON decodes a track, dropping artist entries that are not JSON objects and treating a null id as missing.
func (t *TrackPayload) UnmarshalJSON(b []byte) error {
	type plain TrackPayload
	aux := struct {
		*plain
		ID      *string           `json:"id"`
		Artists []json.RawMessage `json:"artists"`
	}{plain: (*plain)(t)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if aux.ID != nil {
		t.ID = *aux.ID
	}

	t.Artists = nil
	for _, raw := range aux.Artists {
		if !isObject(raw) {
			continue
		}
		var a ArtistPayload
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		t.Artists = append(t.Artists, a)
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// AudioFeatureSet holds the audio descriptors of a track.
type AudioFeatureSet struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              int     `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	TimeSignature    int     `json:"time_signature"`
}

// PlaylistSummary is one playlist returned by a search.
type PlaylistSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// Valid reports whether the search hit can be collected.
func (p PlaylistSummary) Valid() bool {
	return p.ID != ""
}

// Seeds are the inputs of a recommendation request.
type Seeds struct {
	Tracks  []string
	Artists []string
	Genres  []string
}

// Empty reports whether no seed was given.
func (s Seeds) Empty() bool {
	return len(s.Tracks) == 0 && len(s.Artists) == 0 && len(s.Genres) == 0
}
