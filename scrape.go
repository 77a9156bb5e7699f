package main

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/charlie-adam/nts-scraper/match"
	"github.com/charlie-adam/nts-scraper/nts"
	"github.com/charlie-adam/nts-scraper/store"
)

// episodeWorkers bounds concurrent tracklist fetches against the NTS API.
const episodeWorkers = 5

// scrapedTape pairs a tape's metadata with the raw tracklist before
// matching.
type scrapedTape struct {
	tape   store.Tape
	tracks []nts.Track
}

// fullScrapeAndSearch fetches every episode of the show, searches each
// track on Spotify, walks the user through uncertain matches and
// persists the lot.
func (app *Application) fullScrapeAndSearch(ctx context.Context) error {
	episodes, err := app.ntsClient.GetAllEpisodes(ctx, app.showAlias)
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}
	if len(episodes) == 0 {
		return fmt.Errorf("no episodes found for show '%s'", app.showAlias)
	}

	fmt.Fprintf(app.out, "📻 Found %d episodes of %s\n", len(episodes), app.showAlias)

	scraped, err := app.fetchTracklists(ctx, episodes)
	if err != nil {
		return err
	}

	// Newest first, matching the episode order on the show page
	sort.Slice(scraped, func(i, j int) bool {
		return scraped[i].tape.Broadcast > scraped[j].tape.Broadcast
	})

	tapes := make([]store.Tape, 0, len(scraped))
	for i, st := range scraped {
		fmt.Fprintf(app.out, "\n🔎 [%d/%d] %s (%d tracks)\n", i+1, len(scraped), st.tape.Alias, len(st.tracks))
		tape := st.tape
		tape.Tracks = app.matchTracklist(ctx, st.tracks)
		tapes = append(tapes, tape)
	}

	if err := app.store.SaveTapes(tapes); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "\n💾 Saved tracklists to %s\n", app.store.Dir())

	app.printSummary(tapes)
	app.printMissingTracks(ctx, tapes)
	return nil
}

// fetchTracklists pulls every episode's tracklist over a bounded worker
// pool. Episodes whose fetch fails are reported and skipped; one flaky
// episode shouldn't sink an hour-long scrape.
func (app *Application) fetchTracklists(ctx context.Context, episodes []nts.Episode) ([]scrapedTape, error) {
	bar := progressbar.Default(int64(len(episodes)), "fetching tracklists")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		scraped []scrapedTape
		failed  []string
	)
	jobs := make(chan nts.Episode)

	workers := episodeWorkers
	if workers > len(episodes) {
		workers = len(episodes)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ep := range jobs {
				tracks, detail, err := app.ntsClient.GetEpisodeTracklist(ctx, ep.ShowAlias, ep.EpisodeAlias)
				mu.Lock()
				if err != nil {
					failed = append(failed, ep.EpisodeAlias)
				} else {
					scraped = append(scraped, scrapedTape{
						tape: store.Tape{
							Alias:      ep.EpisodeAlias,
							Name:       displayName(ep.EpisodeAlias),
							Broadcast:  ep.Broadcast,
							URL:        app.ntsClient.EpisodeURL(ep.ShowAlias, ep.EpisodeAlias),
							Mixcloud:   detail.Mixcloud,
							AudioURLs:  audioURLs(detail.AudioSources),
							TrackCount: len(tracks),
						},
						tracks: tracks,
					})
				}
				mu.Unlock()
				bar.Add(1)
			}
		}()
	}

	for _, ep := range episodes {
		jobs <- ep
	}
	close(jobs)
	wg.Wait()
	bar.Finish()

	for _, alias := range failed {
		fmt.Fprintf(app.out, "⚠️  Skipped %s: tracklist fetch failed\n", alias)
	}
	if len(scraped) == 0 {
		return nil, fmt.Errorf("every tracklist fetch failed")
	}
	return scraped, nil
}

// matchTracklist resolves one tape's tracks against Spotify and reviews
// whatever the resolver wasn't sure about.
func (app *Application) matchTracklist(ctx context.Context, tracks []nts.Track) []store.TrackRecord {
	refs := make([]match.TrackRef, len(tracks))
	for i, track := range tracks {
		refs[i] = match.TrackRef{Artist: track.Artist, Title: track.Title}
	}

	bar := progressbar.Default(int64(len(refs)), "searching Spotify")
	coordinator := &match.Coordinator{
		Searcher:    app.spotifyClient,
		Resolver:    app.resolver,
		Workers:     app.config.Matcher.Workers,
		OnTrackDone: func() { bar.Add(1) },
	}
	results, pending := coordinator.SearchAll(ctx, refs)
	bar.Finish()

	accepted := app.reviewPending(pending)

	records := make([]store.TrackRecord, len(refs))
	for i, ref := range refs {
		records[i] = trackRecord(ref, results[i], accepted[i])
	}
	return records
}

// reviewPending runs the interactive confirmation queue over the
// uncertain matches.
func (app *Application) reviewPending(pending []match.Pending) map[int]bool {
	if len(pending) == 0 {
		return nil
	}
	fmt.Fprintf(app.out, "🤔 %d matches need a second look\n", len(pending))
	reviewer := &match.Reviewer{In: app.in, Out: app.out}
	return reviewer.Review(pending)
}

// trackRecord folds a match result into the persisted record. Uncertain
// matches the user rejected (or never reviewed) come out as not found.
func trackRecord(ref match.TrackRef, res *match.Result, accepted bool) store.TrackRecord {
	rec := store.TrackRecord{
		Artist: ref.Artist,
		Title:  ref.Title,
	}
	if res == nil || !res.Found() {
		return rec
	}
	if res.NeedsConfirmation && !accepted {
		return rec
	}

	rec.URI = res.URI
	rec.Found = true
	rec.Distance = res.Distance
	rec.AutoConfirmed = res.ConfirmedAutomatically
	if res.Matched != nil {
		rec.MatchedArtist = res.Matched.Artist
		rec.MatchedTitle = res.Matched.Title
	}
	return rec
}

// retryFailedTracks re-searches every track that is still marked not
// found in the saved tapes.
func (app *Application) retryFailedTracks(ctx context.Context) error {
	tapes, err := app.store.LoadTapes()
	if err != nil {
		return fmt.Errorf("no saved scrape to retry; run a full scrape first: %w", err)
	}

	// Flatten the misses, remembering where each one came from
	type position struct{ tape, track int }
	var (
		refs      []match.TrackRef
		positions []position
	)
	for ti := range tapes {
		for tj, rec := range tapes[ti].Tracks {
			if !rec.Found {
				refs = append(refs, match.TrackRef{Artist: rec.Artist, Title: rec.Title})
				positions = append(positions, position{tape: ti, track: tj})
			}
		}
	}

	if len(refs) == 0 {
		fmt.Fprintln(app.out, "✅ Nothing to retry; every track was already found")
		return nil
	}

	fmt.Fprintf(app.out, "🔁 Retrying %d tracks\n", len(refs))

	bar := progressbar.Default(int64(len(refs)), "searching Spotify")
	coordinator := &match.Coordinator{
		Searcher:    app.spotifyClient,
		Resolver:    app.resolver,
		Workers:     app.config.Matcher.Workers,
		OnTrackDone: func() { bar.Add(1) },
	}
	results, pending := coordinator.SearchAll(ctx, refs)
	bar.Finish()

	accepted := app.reviewPending(pending)

	recovered := 0
	for i, pos := range positions {
		rec := trackRecord(refs[i], results[i], accepted[i])
		if rec.Found {
			tapes[pos.tape].Tracks[pos.track] = rec
			recovered++
		}
	}

	if err := app.store.SaveTapes(tapes); err != nil {
		return err
	}

	fmt.Fprintf(app.out, "💾 Recovered %d of %d tracks\n", recovered, len(refs))
	app.printSummary(tapes)
	return nil
}

// displayName turns an episode alias into something readable.
func displayName(alias string) string {
	out := []rune(alias)
	for i, r := range out {
		if r == '-' {
			out[i] = ' '
		}
	}
	return string(out)
}

func audioURLs(sources []nts.AudioSource) []string {
	urls := make([]string, 0, len(sources))
	for _, s := range sources {
		urls = append(urls, s.URL)
	}
	return urls
}
