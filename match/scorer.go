package match

import "strings"

// Default scorer tuning. The threshold is measured in edit-distance points
// on normalized strings; it was calibrated against Spotify search results
// and should be re-tuned for any other catalog.
const (
	DefaultThreshold       = 15.0
	DefaultTitleWeight     = 2.0
	DefaultFloorMultiplier = 2.0
)

// Scorer picks the closest candidate by blended title/artist edit distance.
// Titles weigh more than artists: they are lower-cardinality and more
// diagnostic of the actual recording.
type Scorer struct {
	// Threshold is the distance above which a match needs manual
	// confirmation.
	Threshold float64
	// TitleWeight is how many times the title distance counts against the
	// artist distance's one.
	TitleWeight float64
	// FloorMultiplier scales Threshold into the confidence floor: results
	// beyond Threshold*FloorMultiplier are discarded outright, not even
	// offered for review.
	FloorMultiplier float64
}

// NewScorer returns a Scorer with the default tuning.
func NewScorer() *Scorer {
	return &Scorer{
		Threshold:       DefaultThreshold,
		TitleWeight:     DefaultTitleWeight,
		FloorMultiplier: DefaultFloorMultiplier,
	}
}

// Score selects the candidate with the minimum weighted distance from ref.
// Ties keep the first-seen candidate. Returns nil when there are no
// candidates or the best score is beyond the confidence floor.
func (s *Scorer) Score(ref TrackRef, candidates []Candidate) *Result {
	if len(candidates) == 0 {
		return nil
	}

	artist := Normalize(ref.Artist)
	title := Normalize(ref.Title)
	joined := strings.TrimSpace(artist + " " + title)

	best := -1
	var bestScore float64
	for i, cand := range candidates {
		score := s.candidateScore(artist, title, joined, cand)
		if best < 0 || score < bestScore {
			best = i
			bestScore = score
		}
	}

	if bestScore > s.floor() {
		return nil
	}

	cand := candidates[best]
	return &Result{
		URI:               cand.URI,
		NeedsConfirmation: bestScore > s.threshold(),
		Distance:          bestScore,
		Source:            ref,
		Matched: &TrackRef{
			Artist: strings.Join(cand.Artists, ", "),
			Title:  cand.Title,
		},
	}
}

// candidateScore blends the title and artist distances, weighting the
// title, and lets the joined-string distance win when the scraped pair has
// its fields merged or swapped.
func (s *Scorer) candidateScore(artist, title, joined string, cand Candidate) float64 {
	candArtist := Normalize(strings.Join(cand.Artists, " "))
	candTitle := Normalize(cand.Title)
	candJoined := strings.TrimSpace(candArtist + " " + candTitle)

	titleDist := float64(Distance(title, candTitle))
	artistDist := float64(Distance(artist, candArtist))
	joinedDist := float64(Distance(joined, candJoined))

	w := s.titleWeight()
	score := (w*titleDist + artistDist) / (w + 1)
	if joinedDist < score {
		score = joinedDist
	}
	return score
}

func (s *Scorer) threshold() float64 {
	if s.Threshold > 0 {
		return s.Threshold
	}
	return DefaultThreshold
}

func (s *Scorer) titleWeight() float64 {
	if s.TitleWeight > 0 {
		return s.TitleWeight
	}
	return DefaultTitleWeight
}

func (s *Scorer) floor() float64 {
	mult := s.FloorMultiplier
	if mult <= 0 {
		mult = DefaultFloorMultiplier
	}
	return s.threshold() * mult
}
