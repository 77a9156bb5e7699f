package spotify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/charlie-adam/nts-scraper/config"
	"github.com/charlie-adam/nts-scraper/match"
)

// rateLimitBackoff is how long to wait before the single retry after a
// 429 response from the search API.
const rateLimitBackoff = 5 * time.Second

// Client wraps the Spotify API client for catalog search.
type Client struct {
	client      *spotify.Client
	searchLimit int
	sleep       func(time.Duration)
}

// NewClient creates a search client using the client credentials flow.
// Catalog search needs no user consent, so no browser round trip happens
// here; playlist writes go through Authorize instead.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	creds := &clientcredentials.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)

	return &Client{
		client:      spotify.New(httpClient),
		searchLimit: cfg.Matcher.SearchLimit,
		sleep:       time.Sleep,
	}, nil
}

// SearchCandidates looks a track up in the Spotify catalog. It first runs
// a structured artist/track query, and falls back to a broad free-text
// query when the structured one returns nothing. The two result sets are
// concatenated, structured hits first, so exact matches sort ahead of
// fuzzy ones.
func (c *Client) SearchCandidates(ctx context.Context, ref match.TrackRef) ([]match.Candidate, error) {
	structured := fmt.Sprintf("artist:%s track:%s", ref.Artist, ref.Title)
	candidates, err := c.search(ctx, structured)
	if err != nil {
		return nil, err
	}

	if len(candidates) > 0 {
		return candidates, nil
	}

	broad := fmt.Sprintf("%s %s", ref.Artist, ref.Title)
	return c.search(ctx, broad)
}

// search runs one query, retrying exactly once after a rate limit
// response. The retry's outcome is returned as-is, success or failure.
func (c *Client) search(ctx context.Context, query string) ([]match.Candidate, error) {
	candidates, err := c.searchOnce(ctx, query)
	if err != nil && isRateLimited(err) {
		c.sleep(rateLimitBackoff)
		return c.searchOnce(ctx, query)
	}
	return candidates, err
}

func (c *Client) searchOnce(ctx context.Context, query string) ([]match.Candidate, error) {
	limit := c.searchLimit
	if limit <= 0 {
		limit = config.DefaultSearchLimit
	}

	result, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}

	if result.Tracks == nil {
		return nil, nil
	}

	candidates := make([]match.Candidate, 0, len(result.Tracks.Tracks))
	for _, track := range result.Tracks.Tracks {
		candidates = append(candidates, convertTrack(track))
	}
	return candidates, nil
}

// isRateLimited reports whether the error is a 429 from the Spotify API.
func isRateLimited(err error) bool {
	var spotifyErr spotify.Error
	return errors.As(err, &spotifyErr) && spotifyErr.Status == 429
}

// convertTrack converts a Spotify track to a match candidate.
func convertTrack(track spotify.FullTrack) match.Candidate {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	return match.Candidate{
		Artists: artists,
		Title:   track.Name,
		URI:     string(track.URI),
	}
}
