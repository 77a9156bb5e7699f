package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/charlie-adam/nts-scraper/match"
	"github.com/charlie-adam/nts-scraper/store"
)

func TestTrackRecord(t *testing.T) {
	ref := match.TrackRef{Artist: "Burial", Title: "Archangel"}

	// No result at all
	rec := trackRecord(ref, nil, false)
	if rec.Found || rec.URI != "" {
		t.Errorf("Expected not found for nil result, got %+v", rec)
	}
	if rec.Artist != "Burial" || rec.Title != "Archangel" {
		t.Errorf("Expected source fields to carry over, got %+v", rec)
	}

	// Clean automatic match
	rec = trackRecord(ref, &match.Result{
		URI:                    "spotify:track:abc",
		ConfirmedAutomatically: true,
		Distance:               2,
		Source:                 ref,
		Matched:                &match.TrackRef{Artist: "Burial", Title: "Archangel"},
	}, false)
	if !rec.Found || rec.URI != "spotify:track:abc" {
		t.Errorf("Expected found record, got %+v", rec)
	}
	if !rec.AutoConfirmed || rec.MatchedArtist != "Burial" {
		t.Errorf("Expected match metadata, got %+v", rec)
	}

	// Uncertain match the user accepted
	uncertain := &match.Result{
		URI:               "spotify:track:def",
		NeedsConfirmation: true,
		Distance:          20,
		Source:            ref,
	}
	rec = trackRecord(ref, uncertain, true)
	if !rec.Found || rec.URI != "spotify:track:def" {
		t.Errorf("Expected accepted uncertain match to be found, got %+v", rec)
	}
	if rec.AutoConfirmed {
		t.Error("Expected manually accepted match not to be auto-confirmed")
	}

	// Uncertain match the user rejected reverts to not found
	rec = trackRecord(ref, uncertain, false)
	if rec.Found || rec.URI != "" {
		t.Errorf("Expected rejected match to come out not found, got %+v", rec)
	}
}

func TestBuildPlaylist(t *testing.T) {
	tapes := []store.Tape{
		{
			Alias: "ep-one",
			Tracks: []store.TrackRecord{
				{Artist: "A", Title: "1", Found: true, URI: "spotify:track:a"},
				{Artist: "B", Title: "2", Found: false},
				{Artist: "C", Title: "3", Found: true, URI: "spotify:track:c"},
			},
		},
		{
			Alias: "ep-two",
			Tracks: []store.TrackRecord{
				// Played again on a later episode
				{Artist: "A", Title: "1", Found: true, URI: "spotify:track:a"},
				{Artist: "D", Title: "4", Found: true, URI: "spotify:track:d"},
			},
		},
	}

	playlist := buildPlaylist("questing-w-zakia", tapes)

	want := []string{"spotify:track:a", "spotify:track:c", "spotify:track:d"}
	if len(playlist.URIs) != len(want) {
		t.Fatalf("Expected %d URIs, got %d: %v", len(want), len(playlist.URIs), playlist.URIs)
	}
	for i, uri := range want {
		if playlist.URIs[i] != uri {
			t.Errorf("URI %d: expected %s, got %s", i, uri, playlist.URIs[i])
		}
	}

	if playlist.Name != "QUESTING W ZAKIA Collection" {
		t.Errorf("Unexpected playlist name: %q", playlist.Name)
	}
	if !strings.Contains(playlist.Description, "questing-w-zakia") {
		t.Errorf("Expected description to name the show, got %q", playlist.Description)
	}
}

func TestBuildPlaylistEmpty(t *testing.T) {
	playlist := buildPlaylist("some-show", []store.Tape{
		{Tracks: []store.TrackRecord{{Artist: "A", Title: "1", Found: false}}},
	})
	if len(playlist.URIs) != 0 {
		t.Errorf("Expected no URIs, got %v", playlist.URIs)
	}
}

func TestDisplayName(t *testing.T) {
	if got := displayName("late-night-tales"); got != "late night tales" {
		t.Errorf("Expected 'late night tales', got %q", got)
	}
	if got := displayName("plain"); got != "plain" {
		t.Errorf("Expected 'plain', got %q", got)
	}
}

func TestRate(t *testing.T) {
	if got := rate(3, 4); got != "75.0%" {
		t.Errorf("Expected 75.0%%, got %s", got)
	}
	if got := rate(0, 0); got != "-" {
		t.Errorf("Expected '-' for empty tape, got %s", got)
	}
}

func TestPromptShowAlias(t *testing.T) {
	// Blank lines are re-prompted until something real arrives
	in := bufio.NewReader(strings.NewReader("\n  \nquesting-w-zakia\n"))
	var out bytes.Buffer

	alias, err := promptShowAlias(in, &out)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if alias != "questing-w-zakia" {
		t.Errorf("Expected 'questing-w-zakia', got %q", alias)
	}
	if strings.Count(out.String(), "Enter the NTS show alias") != 3 {
		t.Errorf("Expected 3 prompts, got output %q", out.String())
	}
}

func TestPromptShowAliasEOF(t *testing.T) {
	if _, err := promptShowAlias(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}); err == nil {
		t.Error("Expected error on EOF")
	}
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	app := &Application{out: &out}

	app.printSummary([]store.Tape{
		{
			Alias: "ep-one",
			Tracks: []store.TrackRecord{
				{Found: true}, {Found: true}, {Found: false},
			},
		},
		{
			Alias:  "ep-two",
			Tracks: []store.TrackRecord{{Found: true}},
		},
	})

	rendered := out.String()
	for _, want := range []string{"ep-one", "ep-two", "66.7%", "100.0%", "Total", "75.0%"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, rendered)
		}
	}
}

func TestRunExitsOnFour(t *testing.T) {
	var out bytes.Buffer
	app := &Application{
		showAlias: "some-show",
		in:        bufio.NewReader(strings.NewReader("banana\n4\n")),
		out:       &out,
	}

	if err := app.Run(nil); err != nil {
		t.Fatalf("Expected clean exit, got %v", err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "Please enter 1, 2, 3 or 4") {
		t.Errorf("Expected a reprompt for garbage input, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Bye") {
		t.Errorf("Expected a goodbye, got:\n%s", rendered)
	}
}

func TestRunExitsOnEOF(t *testing.T) {
	app := &Application{
		showAlias: "some-show",
		in:        bufio.NewReader(strings.NewReader("")),
		out:       &bytes.Buffer{},
	}
	if err := app.Run(nil); err != nil {
		t.Fatalf("Expected clean exit on EOF, got %v", err)
	}
}

func TestReviewSeesAnswersTypedAheadOfMenuRead(t *testing.T) {
	// Everything arrives on stdin at once: the menu choice plus review
	// answers typed ahead while the search would still be running. The menu
	// read buffers past its own line, so the review must go through the
	// same reader or those answers vanish.
	app := &Application{
		showAlias: "some-show",
		in:        bufio.NewReader(strings.NewReader("1\ny\ny\ny\n")),
		out:       &bytes.Buffer{},
	}

	line, err := app.in.ReadString('\n')
	if err != nil || strings.TrimSpace(line) != "1" {
		t.Fatalf("Expected menu choice '1', got %q (err %v)", line, err)
	}

	pending := []match.Pending{
		{Index: 0, Result: &match.Result{URI: "spotify:track:a", NeedsConfirmation: true}},
		{Index: 1, Result: &match.Result{URI: "spotify:track:b", NeedsConfirmation: true}},
		{Index: 2, Result: &match.Result{URI: "spotify:track:c", NeedsConfirmation: true}},
	}

	accepted := app.reviewPending(pending)
	if len(accepted) != 3 {
		t.Fatalf("Expected all 3 typed-ahead accepts to land, got %d: %v", len(accepted), accepted)
	}
	for i := 0; i < 3; i++ {
		if !accepted[i] {
			t.Errorf("Expected index %d to be accepted", i)
		}
	}
}
