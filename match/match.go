// Package match decides whether a noisy, human-entered artist/title pair
// scraped from an NTS tracklist refers to the same recording as a Spotify
// search result. An LLM oracle gets the first look; a weighted edit-distance
// scorer is the fallback; anything the scorer is unsure about is queued for
// manual review.
package match

// TrackRef is the scraped artist/title pair from an episode tracklist.
type TrackRef struct {
	Artist string
	Title  string
}

// Candidate is one catalog search result offered to the matcher.
type Candidate struct {
	Artists []string
	Title   string
	URI     string
}

// Result is the outcome of matching one TrackRef against its candidates.
// An empty URI means no plausible candidate was found. NeedsConfirmation
// is never set together with ConfirmedAutomatically.
type Result struct {
	URI                    string
	ConfirmedAutomatically bool
	NeedsConfirmation      bool
	Distance               float64
	Source                 TrackRef
	Matched                *TrackRef
}

// Found reports whether the result carries a catalog match.
func (r *Result) Found() bool {
	return r != nil && r.URI != ""
}

// Pending pairs a confirmation-needed result with the index of the track
// that produced it, so a later accept/reject maps back to one output slot.
type Pending struct {
	Index  int
	Result *Result
}
