// Package musicbrainz looks up recordings for tracks that Spotify's
// catalog doesn't carry, so the missing-track report can link somewhere
// useful.
package musicbrainz

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps the MusicBrainz API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// Recording represents a MusicBrainz recording
type Recording struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"title"`
}

// SearchResponse represents the response from the MusicBrainz recording
// search API
type SearchResponse struct {
	RecordingList struct {
		Recordings []Recording `xml:"recording"`
	} `xml:"recording-list"`
}

// NewClient creates a new MusicBrainz client. Requests are limited to
// one per second per the MusicBrainz API etiquette rules.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   "https://musicbrainz.org/ws/2",
		userAgent: "nts-scraper/1.0 (https://github.com/charlie-adam/nts-scraper)",
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// FindRecording searches for a recording by artist and title and returns
// the MusicBrainz recording ID of the best hit.
func (c *Client) FindRecording(ctx context.Context, artist, title string) (string, error) {
	if artist == "" || title == "" {
		return "", fmt.Errorf("artist and title cannot be empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	query := fmt.Sprintf("artist:\"%s\" AND recording:\"%s\"",
		strings.ReplaceAll(artist, "\"", "\\\""),
		strings.ReplaceAll(title, "\"", "\\\""))

	params := url.Values{}
	params.Add("query", query)
	params.Add("limit", "1")
	params.Add("fmt", "xml")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/recording/?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set required headers for MusicBrainz API
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("MusicBrainz API returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := xml.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode XML response: %w", err)
	}

	if len(searchResp.RecordingList.Recordings) == 0 {
		return "", fmt.Errorf("no recordings found for artist: %s, title: %s", artist, title)
	}

	return searchResp.RecordingList.Recordings[0].ID, nil
}

// RecordingURL returns the public MusicBrainz page for a recording ID.
func RecordingURL(id string) string {
	return "https://musicbrainz.org/recording/" + id
}
