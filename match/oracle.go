package match

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CompletionClient is the narrow slice of the LLM client the oracle needs.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// oraclePolicyPrompt is the system prompt for the first-pass matching judge.
// The answer must be a bare integer so parsing stays trivial and any chatty
// response falls through to the distance scorer.
const oraclePolicyPrompt = `You decide whether a track scraped from a radio tracklist matches one of the numbered Spotify search results.

Treat a result as the SAME song even when it lists fewer collaborators than the scraped credit, when the subtitle or parenthetical differs, when it is a different movement of the same larger work, or when the title is a simplified form.
Treat a result as a DIFFERENT song when the underlying composition differs, when only the mood or genre is similar, or when it is the wrong remix version (unless the scraped title names no version at all).

Respond with a single integer and nothing else: 0 if none of the results match, or the number of the matching result.`

// Oracle asks a language model to pick the matching candidate before any
// distance scoring happens.
type Oracle struct {
	client CompletionClient
}

// NewOracle wraps a completion client. A nil client yields an oracle that
// always answers inconclusively.
func NewOracle(client CompletionClient) *Oracle {
	return &Oracle{client: client}
}

// Ask presents the candidates to the model and returns a fully confirmed
// match on a valid in-range answer. It never fails: transport errors,
// non-numeric replies, zero and out-of-range answers all come back as nil
// so the caller can fall through to the scorer.
func (o *Oracle) Ask(ctx context.Context, ref TrackRef, candidates []Candidate) *Result {
	if o == nil || o.client == nil || len(candidates) == 0 {
		return nil
	}

	raw, err := o.client.Complete(ctx, oraclePolicyPrompt, buildOraclePrompt(ref, candidates))
	if err != nil {
		return nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > len(candidates) {
		return nil
	}

	cand := candidates[n-1]
	return &Result{
		URI:                    cand.URI,
		ConfirmedAutomatically: true,
		Distance:               0,
		Source:                 ref,
		Matched: &TrackRef{
			Artist: strings.Join(cand.Artists, ", "),
			Title:  cand.Title,
		},
	}
}

func buildOraclePrompt(ref TrackRef, candidates []Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scraped track: %s - %s\n\nSearch results:\n", ref.Artist, ref.Title)
	for i, cand := range candidates {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, strings.Join(cand.Artists, ", "), cand.Title)
	}
	return b.String()
}
