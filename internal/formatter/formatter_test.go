package formatter

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/trackset/internal/models"
	th "github.com/desertthunder/trackset/internal/testing"
)

func sampleDataset(n int) *models.Dataset {
	records := make([]models.TrackRecord, 0, n)
	for i := range n {
		lyrics := "line one\nline \"two\", with comma"
		r := models.TrackRecord{
			ID:               "track" + strconv.Itoa(i),
			Name:             "Song " + strconv.Itoa(i),
			Popularity:       i * 3,
			Explicit:         i%2 == 0,
			DurationMS:       180000 + i,
			AlbumName:        "Album",
			AlbumReleaseDate: "2020-01-01",
			ArtistNames:      "Artist One, Artist Two",
			ArtistIDs:        "a1, a2",
			LyricsColumn:     true,
		}
		if i%3 != 0 {
			r.Lyrics = &lyrics
		}
		records = append(records, r)
	}
	return models.NewDataset(records)
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleDataset(2))
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		header := strings.Join(append(append([]string{}, models.BaseColumns...), models.ColLyrics), ",")
		if !strings.HasPrefix(output, header+"\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `"Artist One, Artist Two"`) {
			t.Errorf("CSV should quote joined artist names, got: %s", output)
		}
		if !strings.Contains(output, `"line one`+"\n"+`line ""two"", with comma"`) {
			t.Errorf("CSV should quote multi-line lyrics, got: %s", output)
		}
	})

	t.Run("ExportToCSV Empty Dataset", func(t *testing.T) {
		data, err := ExportToCSV(models.NewDataset(nil))
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if len(data) != 0 {
			t.Errorf("expected empty output, got %q", string(data))
		}
	})

	t.Run("WriteCSV Failing Writer", func(t *testing.T) {
		if err := WriteCSV(&th.FWriter{}, sampleDataset(1)); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		compact, err := MarshalJSON(map[string]int{"a": 1}, false)
		if err != nil || string(compact) != `{"a":1}` {
			t.Errorf("unexpected compact JSON %q (%v)", compact, err)
		}

		pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
		if err != nil || string(pretty) != "{\n  \"a\": 1\n}" {
			t.Errorf("unexpected pretty JSON %q (%v)", pretty, err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteDatasetCSV", func(t *testing.T) {
		t.Run("Creates Parent Directories", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data", "raw", "playlist_tracks.csv")

			if err := WriteDatasetCSV(sampleDataset(3), path); err != nil {
				t.Fatalf("WriteDatasetCSV failed: %v", err)
			}

			th.AssertDirExists(t, filepath.Dir(path))
			th.AssertFileExists(t, path)
		})

		t.Run("Empty Path", func(t *testing.T) {
			if err := WriteDatasetCSV(sampleDataset(1), ""); err == nil {
				t.Error("expected error for empty path")
			}
		})

		t.Run("Round Trip", func(t *testing.T) {
			ds := sampleDataset(7)
			path := filepath.Join(t.TempDir(), "tracks.csv")

			if err := WriteDatasetCSV(ds, path); err != nil {
				t.Fatalf("WriteDatasetCSV failed: %v", err)
			}

			table, err := ReadDatasetCSV(path)
			if err != nil {
				t.Fatalf("ReadDatasetCSV failed: %v", err)
			}
			if len(table.Rows) != len(ds.Records) {
				t.Fatalf("expected %d rows, got %d", len(ds.Records), len(table.Rows))
			}

			for i, r := range ds.Records {
				values := r.Values()
				for _, col := range ds.Columns() {
					if got := table.Get(i, col); got != values[col] {
						t.Errorf("row %d column %s: expected %q, got %q", i, col, values[col], got)
					}
				}
			}
		})

		t.Run("Mixed Columns", func(t *testing.T) {
			records := append(sampleDataset(1).Records, models.TrackRecord{
				ID: "rec1", Name: "Rec", AlbumName: models.UnknownAlbum, AlbumReleaseDate: models.UnknownDate,
				Features: &models.AudioFeatureSet{Tempo: 98.5, Key: 2},
			})
			path := filepath.Join(t.TempDir(), "mixed.csv")

			if err := WriteDatasetCSV(models.NewDataset(records), path); err != nil {
				t.Fatalf("WriteDatasetCSV failed: %v", err)
			}

			table, err := ReadDatasetCSV(path)
			if err != nil {
				t.Fatalf("ReadDatasetCSV failed: %v", err)
			}
			if table.Get(0, "tempo") != "" {
				t.Errorf("expected empty tempo for playlist row, got %q", table.Get(0, "tempo"))
			}
			if table.Get(1, "tempo") != "98.5" {
				t.Errorf("expected tempo 98.5, got %q", table.Get(1, "tempo"))
			}
			if table.Get(1, models.ColLyrics) != "" {
				t.Errorf("expected empty lyrics for recommendation row, got %q", table.Get(1, models.ColLyrics))
			}
		})
	})

	t.Run("ReadDatasetCSV Missing File", func(t *testing.T) {
		if _, err := ReadDatasetCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("RecommendationsPath", func(t *testing.T) {
		tests := []struct {
			in   string
			want string
		}{
			{"data/raw/playlist_tracks.csv", "data/raw/playlist_tracks_recommendations.csv"},
			{"out", "out_recommendations.csv"},
			{"tracks.tsv", "tracks_recommendations.tsv"},
		}

		for _, tt := range tests {
			if got := RecommendationsPath(tt.in); got != tt.want {
				t.Errorf("RecommendationsPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})
}
