// Package nts scrapes show and episode data from the NTS Radio web API.
package nts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://www.nts.live"
	episodePageSize = 12
	userAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client wraps the NTS Radio API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Episode identifies one broadcast of a show.
type Episode struct {
	EpisodeAlias string
	ShowAlias    string
	Broadcast    string
}

// Track is one tracklist entry with its artist credits joined into a
// single display string.
type Track struct {
	Artist   string
	Title    string
	Offset   *float64
	Duration *float64
	UID      string
}

// AudioSource is one place an episode's audio can be streamed from.
type AudioSource struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// EpisodeDetail carries the episode metadata persisted alongside a
// tracklist.
type EpisodeDetail struct {
	BroadcastFormatted string
	Mixcloud           string
	AudioSources       []AudioSource
}

// NewClient creates an NTS client with a courtesy rate limit so bulk
// scrapes stay polite.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
	}
}

type episodeListResponse struct {
	Results []struct {
		EpisodeAlias string `json:"episode_alias"`
		ShowAlias    string `json:"show_alias"`
		Broadcast    string `json:"broadcast"`
	} `json:"results"`
	Metadata struct {
		Resultset struct {
			Count int `json:"count"`
		} `json:"resultset"`
	} `json:"metadata"`
}

// GetAllEpisodes pages through a show's episode listing until the
// reported result count is exhausted.
func (c *Client) GetAllEpisodes(ctx context.Context, showAlias string) ([]Episode, error) {
	var episodes []Episode
	offset := 0

	for {
		var page episodeListResponse
		url := fmt.Sprintf("%s/api/v2/shows/%s/episodes?offset=%d&limit=%d", c.baseURL, showAlias, offset, episodePageSize)
		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("failed to list episodes for %s: %w", showAlias, err)
		}

		if len(page.Results) == 0 {
			break
		}
		for _, result := range page.Results {
			if result.EpisodeAlias == "" || result.ShowAlias == "" {
				continue
			}
			episodes = append(episodes, Episode{
				EpisodeAlias: result.EpisodeAlias,
				ShowAlias:    result.ShowAlias,
				Broadcast:    result.Broadcast,
			})
		}

		offset += episodePageSize
		if offset >= page.Metadata.Resultset.Count {
			break
		}
	}

	return episodes, nil
}

type episodeResponse struct {
	BroadcastFormatted string        `json:"broadcast_formatted_long"`
	Mixcloud           string        `json:"mixcloud"`
	AudioSources       []AudioSource `json:"audio_sources"`
	Tracklist          []struct {
		Title            string        `json:"title"`
		Offset           *float64      `json:"offset"`
		Duration         *float64      `json:"duration"`
		UID              string        `json:"uid"`
		MainArtists      []trackArtist `json:"mainArtists"`
		FeaturingArtists []trackArtist `json:"featuringArtists"`
		RemixArtists     []trackArtist `json:"remixArtists"`
	} `json:"tracklist"`
}

type trackArtist struct {
	Name string `json:"name"`
}

// GetEpisodeTracklist fetches one episode's full tracklist plus the
// metadata worth persisting with it.
func (c *Client) GetEpisodeTracklist(ctx context.Context, showAlias, episodeAlias string) ([]Track, EpisodeDetail, error) {
	url := fmt.Sprintf("%s/shows/%s/episodes/%s", c.baseURL, showAlias, episodeAlias)

	var episode episodeResponse
	if err := c.getJSON(ctx, url, &episode); err != nil {
		return nil, EpisodeDetail{}, fmt.Errorf("failed to fetch episode %s/%s: %w", showAlias, episodeAlias, err)
	}

	tracks := make([]Track, 0, len(episode.Tracklist))
	for _, entry := range episode.Tracklist {
		title := entry.Title
		if title == "" {
			title = "Unknown Title"
		}
		tracks = append(tracks, Track{
			Artist:   joinArtistCredit(entry.MainArtists, entry.FeaturingArtists, entry.RemixArtists),
			Title:    title,
			Offset:   entry.Offset,
			Duration: entry.Duration,
			UID:      entry.UID,
		})
	}

	detail := EpisodeDetail{
		BroadcastFormatted: episode.BroadcastFormatted,
		Mixcloud:           episode.Mixcloud,
		AudioSources:       episode.AudioSources,
	}
	return tracks, detail, nil
}

// EpisodeURL returns the public page for an episode.
func (c *Client) EpisodeURL(showAlias, episodeAlias string) string {
	return fmt.Sprintf("%s/shows/%s/episodes/%s", defaultBaseURL, showAlias, episodeAlias)
}

// joinArtistCredit folds main, featuring and remix artists into the one
// display credit the tracklist pages show.
func joinArtistCredit(main, featuring, remix []trackArtist) string {
	parts := artistNames(main)
	if feat := artistNames(featuring); len(feat) > 0 {
		parts = append(parts, "ft. "+strings.Join(feat, ", "))
	}
	if rmx := artistNames(remix); len(rmx) > 0 {
		parts = append(parts, "("+strings.Join(rmx, ", ")+" Remix)")
	}
	if len(parts) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(parts, ", ")
}

func artistNames(artists []trackArtist) []string {
	var names []string
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return names
}

func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("DNT", "1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("NTS API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode JSON response: %w", err)
	}
	return nil
}
