package match

import "context"

// resolveState tracks where a single track is in the oracle-first,
// distance-fallback cascade. The states are reached in strict order;
// each transition's condition is tested independently.
type resolveState int

const (
	stateAIAttempt resolveState = iota
	stateFallbackScore
	stateDone
)

// Resolver runs the matching cascade for one track: the oracle gets the
// first look, the scorer handles everything the oracle could not decide.
// The caller supplies the candidate set; the two-tier catalog search has
// already happened by the time Resolve runs.
type Resolver struct {
	Oracle *Oracle
	Scorer *Scorer
}

// NewResolver builds a resolver with the default scorer. oracle may be nil
// when no LLM is configured; every track then goes straight to the scorer.
func NewResolver(oracle *Oracle) *Resolver {
	return &Resolver{Oracle: oracle, Scorer: NewScorer()}
}

// Resolve returns the match for ref, or nil when no plausible candidate
// exists. An oracle answer is final and never reaches the scorer.
func (r *Resolver) Resolve(ctx context.Context, ref TrackRef, candidates []Candidate) *Result {
	var result *Result
	scorer := r.Scorer
	if scorer == nil {
		scorer = NewScorer()
	}

	for state := stateAIAttempt; state != stateDone; {
		switch state {
		case stateAIAttempt:
			if res := r.Oracle.Ask(ctx, ref, candidates); res != nil {
				result = res
				state = stateDone
				break
			}
			state = stateFallbackScore
		case stateFallbackScore:
			result = scorer.Score(ref, candidates)
			state = stateDone
		}
	}
	return result
}
