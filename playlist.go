package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/charlie-adam/nts-scraper/spotify"
	"github.com/charlie-adam/nts-scraper/store"
)

// createPlaylist builds the show's playlist from the saved tapes and
// pushes it to Spotify. Requires a completed scrape.
func (app *Application) createPlaylist(ctx context.Context) error {
	tapes, err := app.store.LoadTapes()
	if err != nil {
		return fmt.Errorf("no saved scrape; run a full scrape first: %w", err)
	}

	playlist := buildPlaylist(app.showAlias, tapes)
	if len(playlist.URIs) == 0 {
		return fmt.Errorf("no matched tracks to add; nothing was found on Spotify")
	}

	fmt.Fprintf(app.out, "🎧 %d tracks ready for '%s'\n", len(playlist.URIs), playlist.Name)

	client, err := spotify.Authorize(ctx, app.config)
	if err != nil {
		return fmt.Errorf("spotify authorization failed: %w", err)
	}

	playlistID, playlistURL, err := spotify.CreatePlaylist(ctx, client, playlist.Name, playlist.Description)
	if err != nil {
		return err
	}
	playlist.PlaylistID = playlistID
	playlist.PlaylistURL = playlistURL

	bar := progressbar.Default(int64(len(playlist.URIs)), "adding tracks")
	err = spotify.AddTracks(ctx, client, playlistID, playlist.URIs, func(added int) {
		bar.Set(added)
	})
	bar.Finish()
	if err != nil {
		return err
	}

	if err := app.store.SavePlaylist(playlist); err != nil {
		return err
	}

	fmt.Fprintf(app.out, "✅ Playlist created: %s\n", playlistURL)
	return nil
}

// buildPlaylist collects every matched URI across the tapes in tape
// order, dropping duplicates so a track played on two episodes appears
// once.
func buildPlaylist(showAlias string, tapes []store.Tape) *store.Playlist {
	seen := make(map[string]bool)
	var uris []string
	for _, tape := range tapes {
		for _, rec := range tape.Tracks {
			if !rec.Found || rec.URI == "" || seen[rec.URI] {
				continue
			}
			seen[rec.URI] = true
			uris = append(uris, rec.URI)
		}
	}

	return &store.Playlist{
		Name:        strings.ToUpper(displayName(showAlias)) + " Collection",
		Description: fmt.Sprintf("All tracks from %s shows on NTS Radio", showAlias),
		URIs:        uris,
	}
}
