package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/trackset/internal/shared"
)

const songPage = `<html><body>
<div data-lyrics-container="true"><div data-exclude-from-selection="true">12 Contributors</div>[Verse 1]<br/>First line<br/>Second line</div>
<div>unrelated</div>
<div data-lyrics-container="true">[Chorus]<br/><a href="#">Third line</a></div>
</body></html>`

func newGeniusServer(t *testing.T, hits string) *httptest.Server {
	t.Helper()
	var server *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer genius-token" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"meta":{"status":200},"response":{"hits":%s}}`, strings.ReplaceAll(hits, "{{base}}", server.URL))
	})
	mux.HandleFunc("/songs/good", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(songPage))
	})
	mux.HandleFunc("/songs/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	})
	mux.HandleFunc("/songs/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/songs/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			w.Write([]byte(songPage))
		}
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestGenius(t *testing.T, server *httptest.Server, removeHeaders bool) *GeniusService {
	t.Helper()
	srv, err := NewGeniusService(GeniusOpts{
		AccessToken:          "genius-token",
		APIURL:               server.URL,
		RemoveSectionHeaders: removeHeaders,
		HTTPClient:           server.Client(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return srv
}

func TestSongHit_HasLyrics(t *testing.T) {
	tests := []struct {
		name string
		hit  SongHit
		want bool
	}{
		{"complete song", SongHit{Title: "Yellow", LyricsState: "complete"}, true},
		{"unknown state", SongHit{Title: "Yellow"}, true},
		{"unreleased", SongHit{Title: "Yellow", LyricsState: "unreleased"}, false},
		{"instrumental flag", SongHit{Title: "Yellow", LyricsState: "complete", Instrumental: true}, false},
		{"tracklist", SongHit{Title: "Parachutes (Tracklist)", LyricsState: "complete"}, false},
		{"album artwork", SongHit{Title: "Parachutes Album Artwork", LyricsState: "complete"}, false},
		{"credits", SongHit{Title: "Yellow [Credits]", LyricsState: "complete"}, false},
		{"skit", SongHit{Title: "Intro Skit", LyricsState: "complete"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hit.HasLyrics(); got != tt.want {
				t.Errorf("HasLyrics() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBestMatch(t *testing.T) {
	credits := SongHit{ID: 1, Title: "Yellow (Credits)", LyricsState: "complete"}
	cover := SongHit{ID: 2, Title: "Yellow Submarine", LyricsState: "complete"}
	exact := SongHit{ID: 3, Title: "Yellow!", LyricsState: "complete"}

	t.Run("Prefers Normalized Title Match", func(t *testing.T) {
		hit, ok := BestMatch([]SongHit{credits, cover, exact}, "yellow")
		if !ok || hit.ID != 3 {
			t.Errorf("expected exact title match, got %+v", hit)
		}
	})

	t.Run("Falls Back To First Hit With Lyrics", func(t *testing.T) {
		hit, ok := BestMatch([]SongHit{credits, cover}, "Yellow")
		if !ok || hit.ID != 2 {
			t.Errorf("expected first hit with lyrics, got %+v", hit)
		}
	})

	t.Run("Rejects Hits Without Lyrics", func(t *testing.T) {
		tracklist := SongHit{ID: 4, Title: "Album Tracklist", LyricsState: "complete"}
		notes := SongHit{ID: 5, Title: "Liner Notes", LyricsState: "complete"}

		if hit, ok := BestMatch([]SongHit{credits, tracklist, notes}, "Yellow"); ok {
			t.Errorf("expected no match, got %+v", hit)
		}
	})

	t.Run("No Hits", func(t *testing.T) {
		if _, ok := BestMatch(nil, "Yellow"); ok {
			t.Error("expected no match")
		}
	})
}

func TestGeniusService(t *testing.T) {
	t.Run("Missing Token", func(t *testing.T) {
		if _, err := NewGeniusService(GeniusOpts{}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Search Keeps Song Hits", func(t *testing.T) {
		server := newGeniusServer(t, `[
			{"type":"article","result":{"id":9,"title":"News"}},
			{"type":"song","result":{"id":1,"title":"Yellow","url":"{{base}}/songs/good","lyrics_state":"complete","primary_artist":{"name":"Coldplay"}}}
		]`)
		srv := newTestGenius(t, server, true)

		hits, err := srv.Search(context.Background(), "Yellow Coldplay")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(hits) != 1 || hits[0].PrimaryArtist.Name != "Coldplay" {
			t.Errorf("unexpected hits %+v", hits)
		}
	})

	t.Run("Lyrics", func(t *testing.T) {
		server := newGeniusServer(t, `[]`)

		t.Run("Removes Section Headers", func(t *testing.T) {
			srv := newTestGenius(t, server, true)
			lyrics, err := srv.Lyrics(context.Background(), server.URL+"/songs/good")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if lyrics != "First line\nSecond line\nThird line" {
				t.Errorf("unexpected lyrics %q", lyrics)
			}
		})

		t.Run("Keeps Section Headers", func(t *testing.T) {
			srv := newTestGenius(t, server, false)
			lyrics, err := srv.Lyrics(context.Background(), server.URL+"/songs/good")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.HasPrefix(lyrics, "[Verse 1]\nFirst line") {
				t.Errorf("expected section header to be kept, got %q", lyrics)
			}
			if strings.Contains(lyrics, "Contributors") {
				t.Errorf("expected excluded elements to be removed, got %q", lyrics)
			}
		})

		t.Run("Empty Page", func(t *testing.T) {
			srv := newTestGenius(t, server, true)
			if _, err := srv.Lyrics(context.Background(), server.URL+"/songs/empty"); !errors.Is(err, shared.ErrLyricsNotFound) {
				t.Errorf("expected ErrLyricsNotFound, got %v", err)
			}
		})

		t.Run("Missing Page", func(t *testing.T) {
			srv := newTestGenius(t, server, true)
			if _, err := srv.Lyrics(context.Background(), server.URL+"/songs/gone"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Cancelled During Fetch", func(t *testing.T) {
			srv := newTestGenius(t, server, true)
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			start := time.Now()
			_, err := srv.Lyrics(ctx, server.URL+"/songs/slow")
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected context.DeadlineExceeded, got %v", err)
			}
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("expected fetch to stop on cancel, took %v", elapsed)
			}
		})
	})

	t.Run("FindLyrics", func(t *testing.T) {
		t.Run("Scrapes Best Match", func(t *testing.T) {
			server := newGeniusServer(t, `[
				{"type":"song","result":{"id":2,"title":"Yellow (Tracklist)","url":"{{base}}/songs/empty","lyrics_state":"complete"}},
				{"type":"song","result":{"id":1,"title":"Yellow","url":"{{base}}/songs/good","lyrics_state":"complete"}}
			]`)
			srv := newTestGenius(t, server, true)

			lyrics, err := srv.FindLyrics(context.Background(), "Coldplay", "Yellow")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(lyrics, "First line") {
				t.Errorf("unexpected lyrics %q", lyrics)
			}
		})

		t.Run("Only Non-Song Hits", func(t *testing.T) {
			server := newGeniusServer(t, `[
				{"type":"song","result":{"id":7,"title":"Parachutes (Tracklist)","url":"{{base}}/songs/good","lyrics_state":"complete"}},
				{"type":"song","result":{"id":8,"title":"Yellow","url":"{{base}}/songs/good","instrumental":true}}
			]`)
			srv := newTestGenius(t, server, true)

			if _, err := srv.FindLyrics(context.Background(), "Coldplay", "Yellow"); !errors.Is(err, shared.ErrLyricsNotFound) {
				t.Errorf("expected ErrLyricsNotFound, got %v", err)
			}
		})

		t.Run("No Hits", func(t *testing.T) {
			server := newGeniusServer(t, `[]`)
			srv := newTestGenius(t, server, true)

			if _, err := srv.FindLyrics(context.Background(), "Nobody", "Nothing"); !errors.Is(err, shared.ErrLyricsNotFound) {
				t.Errorf("expected ErrLyricsNotFound, got %v", err)
			}
		})
	})
}
