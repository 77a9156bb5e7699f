package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/charlie-adam/nts-scraper/musicbrainz"
	"github.com/charlie-adam/nts-scraper/store"
)

// printSummary renders a per-episode match table with an overall rate.
func (app *Application) printSummary(tapes []store.Tape) {
	t := table.NewWriter()
	t.SetOutputMirror(app.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Episode", "Tracks", "Found", "Rate"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Tracks", Align: text.AlignRight},
		{Name: "Found", Align: text.AlignRight},
		{Name: "Rate", Align: text.AlignRight},
	})

	totalTracks, totalFound := 0, 0
	for _, tape := range tapes {
		found := 0
		for _, rec := range tape.Tracks {
			if rec.Found {
				found++
			}
		}
		totalTracks += len(tape.Tracks)
		totalFound += found
		t.AppendRow(table.Row{tape.Alias, len(tape.Tracks), found, rate(found, len(tape.Tracks))})
	}
	t.AppendFooter(table.Row{"Total", totalTracks, totalFound, rate(totalFound, totalTracks)})

	fmt.Fprintln(app.out)
	t.Render()
}

func rate(found, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(found)/float64(total)*100)
}

// printMissingTracks lists everything that couldn't be matched, with a
// MusicBrainz link where one can be found for manual digging.
func (app *Application) printMissingTracks(ctx context.Context, tapes []store.Tape) {
	var missing []store.TrackRecord
	for _, tape := range tapes {
		for _, rec := range tape.Tracks {
			if !rec.Found {
				missing = append(missing, rec)
			}
		}
	}
	if len(missing) == 0 {
		fmt.Fprintln(app.out, "🎉 Every track was matched")
		return
	}

	fmt.Fprintf(app.out, "\n❌ %d tracks not found on Spotify:\n", len(missing))
	for i, rec := range missing {
		fmt.Fprintf(app.out, "%3d. %s - %s\n", i+1, rec.Artist, rec.Title)
		if id, err := app.musicBrainzClient.FindRecording(ctx, rec.Artist, rec.Title); err == nil {
			fmt.Fprintf(app.out, "     MusicBrainz: %s\n", musicbrainz.RecordingURL(id))
		}
	}
}
