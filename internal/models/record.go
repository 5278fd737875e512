package models

import "strconv"

// Column names of a dataset, in the order they are first emitted.
const (
	ColID               = "id"
	ColName             = "name"
	ColPopularity       = "popularity"
	ColExplicit         = "explicit"
	ColDurationMS       = "duration_ms"
	ColAlbumName        = "album_name"
	ColAlbumReleaseDate = "album_release_date"
	ColArtistNames      = "artist_names"
	ColArtistIDs        = "artist_ids"
	ColLyrics           = "lyrics"
)

// BaseColumns are present on every record.
var BaseColumns = []string{
	ColID, ColName, ColPopularity, ColExplicit, ColDurationMS,
	ColAlbumName, ColAlbumReleaseDate, ColArtistNames, ColArtistIDs,
}

// FeatureColumns are present on records that carry an [AudioFeatureSet].
var FeatureColumns = []string{
	"danceability", "energy", "key", "loudness", "mode", "speechiness",
	"acousticness", "instrumentalness", "liveness", "valence", "tempo", "time_signature",
}

// TrackRecord is one normalized dataset row.
type TrackRecord struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Popularity       int              `json:"popularity"`
	Explicit         bool             `json:"explicit"`
	DurationMS       int              `json:"duration_ms"`
	AlbumName        string           `json:"album_name"`
	AlbumReleaseDate string           `json:"album_release_date"`
	ArtistNames      string           `json:"artist_names"`
	ArtistIDs        string           `json:"artist_ids"`
	Lyrics           *string          `json:"lyrics,omitempty"`
	Features         *AudioFeatureSet `json:"features,omitempty"`

	// LyricsColumn marks records that emit a lyrics column, even when Lyrics is nil.
	LyricsColumn bool `json:"-"`
}

// Columns lists the fields this record emits.
func (r TrackRecord) Columns() []string {
	cols := append([]string{}, BaseColumns...)
	if r.LyricsColumn {
		cols = append(cols, ColLyrics)
	}
	if r.Features != nil {
		cols = append(cols, FeatureColumns...)
	}
	return cols
}

// Values returns the stringified fields of the record keyed by column. Absent or null fields have no key.
func (r TrackRecord) Values() map[string]string {
	v := map[string]string{
		ColID:               r.ID,
		ColName:             r.Name,
		ColPopularity:       strconv.Itoa(r.Popularity),
		ColExplicit:         strconv.FormatBool(r.Explicit),
		ColDurationMS:       strconv.Itoa(r.DurationMS),
		ColAlbumName:        r.AlbumName,
		ColAlbumReleaseDate: r.AlbumReleaseDate,
		ColArtistNames:      r.ArtistNames,
		ColArtistIDs:        r.ArtistIDs,
	}

	if r.LyricsColumn && r.Lyrics != nil {
		v[ColLyrics] = *r.Lyrics
	}

	if f := r.Features; f != nil {
		v["danceability"] = formatFloat(f.Danceability)
		v["energy"] = formatFloat(f.Energy)
		v["key"] = strconv.Itoa(f.Key)
		v["loudness"] = formatFloat(f.Loudness)
		v["mode"] = strconv.Itoa(f.Mode)
		v["speechiness"] = formatFloat(f.Speechiness)
		v["acousticness"] = formatFloat(f.Acousticness)
		v["instrumentalness"] = formatFloat(f.Instrumentalness)
		v["liveness"] = formatFloat(f.Liveness)
		v["valence"] = formatFloat(f.Valence)
		v["tempo"] = formatFloat(f.Tempo)
		v["time_signature"] = strconv.Itoa(f.TimeSignature)
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Dataset is an ordered collection of records. Order is playlist order.
type Dataset struct {
	Records []TrackRecord
}

// NewDataset wraps records in a Dataset.
func NewDataset(records []TrackRecord) *Dataset {
	return &Dataset{Records: records}
}

// Columns is the union of every record's columns in first-seen order.
func (d *Dataset) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range d.Records {
		for _, c := range r.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// Rows returns every record as cells aligned with [Dataset.Columns]. Missing fields are empty cells.
func (d *Dataset) Rows() [][]string {
	cols := d.Columns()
	rows := make([][]string, 0, len(d.Records))
	for _, r := range d.Records {
		values := r.Values()
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = values[c]
		}
		rows = append(rows, row)
	}
	return rows
}

// Shape returns the row and column counts.
func (d *Dataset) Shape() (int, int) {
	return len(d.Records), len(d.Columns())
}
