// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/trackset/internal/models"
	"github.com/desertthunder/trackset/internal/shared"
)

// MockPlaylistProvider is a test double for [services.PlaylistProvider].
//
// Pages are served in order: the first from PlaylistItems and the rest from NextItems, which is handed the
// synthetic URL "page:<n>". Errors keyed by page index replace that page.
type MockPlaylistProvider struct {
	Pages           [][]models.PlaylistEntry
	PageErrors      map[int]error
	Features        map[string]*models.AudioFeatureSet
	FeatureErrors   map[string]error
	Playlists       []models.PlaylistSummary
	SearchErr       error
	Recommended     []models.TrackPayload
	RecommendErr    error
	FeatureHook     func(trackID string)
	mu              sync.Mutex
	ItemCalls       int
	FeatureCalls    int
	SearchQueries   []string
	RecommendSeeds  []models.Seeds
	RecommendLimits []int
}

func (m *MockPlaylistProvider) page(idx int) (*models.EntryPage, error) {
	m.mu.Lock()
	m.ItemCalls++
	m.mu.Unlock()

	if err, ok := m.PageErrors[idx]; ok {
		return nil, err
	}
	if idx >= len(m.Pages) {
		return &models.EntryPage{}, nil
	}

	total := 0
	for _, p := range m.Pages {
		total += len(p)
	}

	page := &models.EntryPage{Entries: m.Pages[idx], Total: total}
	if idx+1 < len(m.Pages) {
		page.Next = fmt.Sprintf("page:%d", idx+1)
	}
	return page, nil
}

func (m *MockPlaylistProvider) PlaylistItems(ctx context.Context, playlistID string) (*models.EntryPage, error) {
	return m.page(0)
}

func (m *MockPlaylistProvider) NextItems(ctx context.Context, next string) (*models.EntryPage, error) {
	var idx int
	if _, err := fmt.Sscanf(next, "page:%d", &idx); err != nil {
		return nil, fmt.Errorf("%w: unexpected next url %q", shared.ErrInvalidArgument, next)
	}
	return m.page(idx)
}

func (m *MockPlaylistProvider) AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatureSet, error) {
	m.mu.Lock()
	m.FeatureCalls++
	m.mu.Unlock()

	if m.FeatureHook != nil {
		m.FeatureHook(trackID)
	}
	if err, ok := m.FeatureErrors[trackID]; ok {
		return nil, err
	}
	if f, ok := m.Features[trackID]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrFeaturesNotFound, trackID)
}

func (m *MockPlaylistProvider) SearchPlaylists(ctx context.Context, query string, limit int) ([]models.PlaylistSummary, error) {
	m.SearchQueries = append(m.SearchQueries, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if limit < len(m.Playlists) {
		return m.Playlists[:limit], nil
	}
	return m.Playlists, nil
}

func (m *MockPlaylistProvider) Recommendations(ctx context.Context, seeds models.Seeds, limit int) ([]models.TrackPayload, error) {
	m.RecommendSeeds = append(m.RecommendSeeds, seeds)
	m.RecommendLimits = append(m.RecommendLimits, limit)
	if m.RecommendErr != nil {
		return nil, m.RecommendErr
	}
	return m.Recommended, nil
}

func (m *MockPlaylistProvider) Name() string { return "mock" }

// MockLyricsProvider is a test double for [services.LyricsProvider].
//
// Lyrics are keyed by "artist|title". Missing keys return [shared.ErrLyricsNotFound].
type MockLyricsProvider struct {
	Lyrics map[string]string
	Errors map[string]error
	Panics map[string]bool
	Calls  []string
}

func (m *MockLyricsProvider) FindLyrics(ctx context.Context, artist, title string) (string, error) {
	key := artist + "|" + title
	m.Calls = append(m.Calls, key)

	if m.Panics[key] {
		panic("lyrics provider exploded")
	}
	if err, ok := m.Errors[key]; ok {
		return "", err
	}
	if lyrics, ok := m.Lyrics[key]; ok {
		return lyrics, nil
	}
	return "", shared.ErrLyricsNotFound
}

func (m *MockLyricsProvider) Name() string { return "mock" }

// StrPtr returns a pointer to s
func StrPtr(s string) *string { return &s }

// IntPtr returns a pointer to i
func IntPtr(i int) *int { return &i }

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool { return &b }

// Track builds a fully populated [models.TrackPayload] with a single artist.
func Track(id, name, artist string) *models.TrackPayload {
	return &models.TrackPayload{
		ID:         id,
		Name:       StrPtr(name),
		Popularity: IntPtr(50),
		Explicit:   BoolPtr(false),
		DurationMS: IntPtr(200000),
		Album: &models.AlbumPayload{
			Name:        StrPtr(name + " (Album)"),
			ReleaseDate: StrPtr("2020-01-01"),
		},
		Artists: []models.ArtistPayload{{ID: StrPtr(artist + "-id"), Name: StrPtr(artist)}},
	}
}

// Entries wraps tracks in playlist entries. A nil track produces an entry without a track.
func Entries(tracks ...*models.TrackPayload) []models.PlaylistEntry {
	entries := make([]models.PlaylistEntry, 0, len(tracks))
	for _, t := range tracks {
		entries = append(entries, models.PlaylistEntry{AddedAt: "2024-01-01T00:00:00Z", Track: t})
	}
	return entries
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func AssertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
