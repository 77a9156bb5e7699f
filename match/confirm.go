package match

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Reviewer walks a human through the matches the scorer was unsure about.
// It runs strictly after the parallel search phase, one entry at a time.
type Reviewer struct {
	In  io.Reader
	Out io.Writer
}

// Review presents every pending entry in order and returns the set of
// position tokens the reviewer explicitly accepted. Quitting early rejects
// everything not yet reviewed; nothing is ever accepted silently.
func (r *Reviewer) Review(pending []Pending) map[int]bool {
	accepted := make(map[int]bool)
	if len(pending) == 0 {
		return accepted
	}

	// Reuse the caller's buffered reader when there is one. Re-wrapping
	// would strip whatever it has already buffered, losing answers typed
	// ahead during the search phase.
	reader, ok := r.In.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(r.In)
	}
	fmt.Fprintf(r.Out, "\n%d uncertain match(es) need review\n", len(pending))

	for i, p := range pending {
		fmt.Fprintf(r.Out, "\n[%d/%d] %s - %s\n", i+1, len(pending), p.Result.Source.Artist, p.Result.Source.Title)
		if p.Result.Matched != nil {
			fmt.Fprintf(r.Out, "   found: %s - %s (distance %.1f)\n", p.Result.Matched.Artist, p.Result.Matched.Title, p.Result.Distance)
		}

		answer, ok := r.readAnswer(reader)
		if !ok {
			// Input exhausted or reviewer quit: the rest stays rejected.
			return accepted
		}
		if answer {
			accepted[p.Index] = true
		}
	}
	return accepted
}

// readAnswer prompts until it gets accept, reject or quit. The second
// return value is false on quit or when the input runs out.
func (r *Reviewer) readAnswer(reader *bufio.Reader) (bool, bool) {
	for {
		fmt.Fprint(r.Out, "   accept? [y]es / [n]o / [q]uit: ")
		line, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, true
		case "n", "no":
			return false, true
		case "q", "quit":
			return false, false
		}
		if err != nil {
			return false, false
		}
	}
}
