// Genius implementation of [LyricsProvider]
//
// Song search uses the Genius API (https://docs.genius.com/#search-h2). Lyrics are not exposed by the API, so they
// are scraped from the song page.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/trackset/internal/shared"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const (
	geniusBaseURL      = "https://api.genius.com"
	geniusUserAgent    = "trackset/0.3"
	lyricsContainerSel = `div[data-lyrics-container="true"]`
	lyricsExcludedSel  = `[data-exclude-from-selection="true"]`
)

var (
	sectionHeaderPattern = regexp.MustCompile(`\[.*?\]`)
	nonLyricsPattern     = regexp.MustCompile(
		`(?i)(track\s?list|album art(work)?|liner notes|booklet|credits|interview|skit|instrumental|setlist)`,
	)
)

// GeniusOpts configures [NewGeniusService].
type GeniusOpts struct {
	AccessToken          string
	APIURL               string
	UserAgent            string
	RequestsPerSecond    float64 // zero disables client-side rate limiting
	RemoveSectionHeaders bool
	HTTPClient           *http.Client
}

// SongHit is a song result from the Genius search endpoint.
type SongHit struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	LyricsState   string `json:"lyrics_state"`
	Instrumental  bool   `json:"instrumental"`
	PrimaryArtist struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
}

// HasLyrics reports whether the hit looks like an actual song with transcribed lyrics
// rather than a tracklist, credits page or instrumental.
func (h SongHit) HasLyrics() bool {
	if h.LyricsState != "" && h.LyricsState != "complete" {
		return false
	}
	if h.Instrumental {
		return false
	}
	return !nonLyricsPattern.MatchString(h.Title)
}

type searchResponse struct {
	Response struct {
		Hits []struct {
			Type   string  `json:"type"`
			Result SongHit `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

// GeniusService implements [LyricsProvider].
type GeniusService struct {
	api           *APIClient
	collector     *colly.Collector
	limiter       *rate.Limiter
	removeHeaders bool
}

// NewGeniusService creates a Genius client authenticated with a bearer access token.
func NewGeniusService(opts GeniusOpts) (*GeniusService, error) {
	if opts.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing genius access_token", shared.ErrMissingCredentials)
	}
	if opts.APIURL == "" {
		opts.APIURL = geniusBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = geniusUserAgent
	}

	api := NewAPIClient("genius", opts.APIURL, opts.HTTPClient)
	api.SetHeader("Authorization", "Bearer "+opts.AccessToken)
	api.SetHeader("User-Agent", opts.UserAgent)

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(opts.UserAgent),
	)
	if opts.HTTPClient != nil {
		c.SetClient(opts.HTTPClient)
	}

	s := &GeniusService{
		api:           api,
		collector:     c,
		removeHeaders: opts.RemoveSectionHeaders,
	}
	if opts.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return s, nil
}

func (s *GeniusService) Name() string {
	return "Genius"
}

func (s *GeniusService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// Search returns the song hits for a free-text query, in the order Genius ranked them.
func (s *GeniusService) Search(ctx context.Context, query string) ([]SongHit, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	var response searchResponse
	if err := s.api.GetJSON(ctx, "/search?q="+url.QueryEscape(query), &response); err != nil {
		return nil, err
	}

	hits := make([]SongHit, 0, len(response.Response.Hits))
	for _, h := range response.Response.Hits {
		if h.Type == "song" {
			hits = append(hits, h.Result)
		}
	}
	return hits, nil
}

// BestMatch picks the hit whose normalized title equals title, then the first hit that has lyrics.
// Hits that are not songs with lyrics are never returned.
func BestMatch(hits []SongHit, title string) (SongHit, bool) {
	if len(hits) == 0 {
		return SongHit{}, false
	}

	want := shared.CleanTitle(title)
	for _, h := range hits {
		if h.HasLyrics() && shared.CleanTitle(h.Title) == want {
			return h, true
		}
	}
	for _, h := range hits {
		if h.HasLyrics() {
			return h, true
		}
	}
	return SongHit{}, false
}

// Lyrics scrapes the lyrics text from a Genius song page.
func (s *GeniusService) Lyrics(ctx context.Context, pageURL string) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var parts []string
	c := s.collector.Clone()
	c.Context = ctx
	c.OnHTML(lyricsContainerSel, func(e *colly.HTMLElement) {
		e.DOM.Find(lyricsExcludedSel).Remove()
		e.DOM.Find("br").Each(func(_ int, br *goquery.Selection) {
			br.ReplaceWithHtml("\n")
		})
		parts = append(parts, e.DOM.Text())
	})

	if err := c.Visit(pageURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: lyrics page %s: %v", shared.ErrAPIRequest, pageURL, err)
	}
	c.Wait()

	lyrics := strings.Join(parts, "\n")
	if s.removeHeaders {
		lyrics = sectionHeaderPattern.ReplaceAllString(lyrics, "")
		lyrics = strings.ReplaceAll(lyrics, "\n\n", "\n")
	}
	lyrics = strings.TrimSpace(lyrics)

	if lyrics == "" {
		return "", fmt.Errorf("%w: empty lyrics page %s", shared.ErrLyricsNotFound, pageURL)
	}
	return lyrics, nil
}

// FindLyrics searches for "title artist" and scrapes the lyrics of the best match.
func (s *GeniusService) FindLyrics(ctx context.Context, artist, title string) (string, error) {
	hits, err := s.Search(ctx, strings.TrimSpace(title+" "+artist))
	if err != nil {
		return "", err
	}

	hit, ok := BestMatch(hits, title)
	if !ok || hit.URL == "" {
		return "", fmt.Errorf("%w: %s by %s", shared.ErrLyricsNotFound, title, artist)
	}
	return s.Lyrics(ctx, hit.URL)
}
