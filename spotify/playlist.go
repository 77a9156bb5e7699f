package spotify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
)

// addBatchSize is the Spotify API's maximum tracks per add request.
const addBatchSize = 100

// CreatePlaylist creates a public playlist on the current user's account
// and returns its ID and web URL.
func CreatePlaylist(ctx context.Context, client *spotify.Client, name, description string) (string, string, error) {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to get current user: %w", err)
	}

	playlist, err := client.CreatePlaylistForUser(ctx, user.ID, name, description, true, false)
	if err != nil {
		return "", "", fmt.Errorf("failed to create playlist '%s': %w", name, err)
	}

	return string(playlist.ID), playlist.ExternalURLs["spotify"], nil
}

// AddTracks appends tracks to a playlist in API-sized batches, preserving
// order. URIs that don't look like Spotify track URIs are skipped. The
// progress callback, if set, is called once per batch with the running
// count of tracks added.
func AddTracks(ctx context.Context, client *spotify.Client, playlistID string, uris []string, progress func(added int)) error {
	var ids []spotify.ID
	for _, uri := range uris {
		if id, ok := trackIDFromURI(uri); ok {
			ids = append(ids, id)
		}
	}

	added := 0
	for start := 0; start < len(ids); start += addBatchSize {
		end := start + addBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		if _, err := client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids[start:end]...); err != nil {
			return fmt.Errorf("failed to add tracks %d-%d: %w", start+1, end, err)
		}

		added += end - start
		if progress != nil {
			progress(added)
		}

		// Courtesy pause between batches
		if end < len(ids) {
			time.Sleep(200 * time.Millisecond)
		}
	}

	return nil
}

// trackIDFromURI extracts the track ID from a spotify:track:<id> URI.
func trackIDFromURI(uri string) (spotify.ID, bool) {
	const prefix = "spotify:track:"
	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(uri, prefix)
	if id == "" {
		return "", false
	}
	return spotify.ID(id), true
}
