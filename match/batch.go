package match

import (
	"context"
	"sort"
	"sync"
)

// DefaultWorkers keeps the pool narrow enough to stay friendly with the
// catalog's rate limits.
const DefaultWorkers = 5

// Searcher supplies the candidate set for one scraped track. The Spotify
// implementation runs the structured query first and a broad free-text
// query when the structured one comes back empty.
type Searcher interface {
	SearchCandidates(ctx context.Context, ref TrackRef) ([]Candidate, error)
}

// Coordinator fans a tracklist across a bounded worker pool, resolving
// every track against the catalog independently.
type Coordinator struct {
	Searcher Searcher
	Resolver *Resolver
	Workers  int

	// OnTrackDone, when set, is called once per completed track. Used for
	// progress reporting; invoked from worker goroutines.
	OnTrackDone func()
}

// SearchAll resolves every track and returns one result per input, in
// input order regardless of completion order. Every track gets a result:
// a failed or empty search leaves its slot occupied with an empty URI.
// Pending collects the needs-confirmation results with their originating
// indices, ordered by index.
func (c *Coordinator) SearchAll(ctx context.Context, tracks []TrackRef) ([]*Result, []Pending) {
	results := make([]*Result, len(tracks))

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(tracks) {
		workers = len(tracks)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		pending []Pending
	)
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := c.resolveOne(ctx, tracks[i])
				// Each index is written exactly once, by exactly one
				// worker; only the pending list needs the lock.
				results[i] = res
				if res.NeedsConfirmation {
					mu.Lock()
					pending = append(pending, Pending{Index: i, Result: res})
					mu.Unlock()
				}
				if c.OnTrackDone != nil {
					c.OnTrackDone()
				}
			}
		}()
	}
	for i := range tracks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(pending, func(i, j int) bool { return pending[i].Index < pending[j].Index })
	return results, pending
}

// resolveOne runs the search-and-resolve unit of work for a single track.
// Any failure, including a panic, is contained here as "not found" so one
// bad track never takes down its siblings.
func (c *Coordinator) resolveOne(ctx context.Context, ref TrackRef) (res *Result) {
	defer func() {
		if recover() != nil || res == nil {
			res = &Result{Source: ref}
		}
	}()

	candidates, err := c.Searcher.SearchCandidates(ctx, ref)
	if err != nil {
		// Search failure resolves like an empty result set.
		candidates = nil
	}
	return c.Resolver.Resolve(ctx, ref, candidates)
}
