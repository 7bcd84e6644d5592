package asset

import (
	"log/slog"
	"strconv"
	"strings"
)

// Store is the blacklist as seen by curation. *blacklist.Store implements it.
type Store interface {
	Exclusions
	Add(url, key string) bool
	Save() error
}

// Curation reports what a curation step did.
type Curation struct {
	// Indices are the accepted selections, in input order.
	Indices []int
	// Changed is true when the store gained at least one entry.
	Changed bool
	// Persisted is true when the store was written successfully.
	Persisted bool
}

// ParseSelection parses a comma-separated list of indices into [0, n).
// Tokens that are not integers or are out of range are ignored, as are
// repeats.
func ParseSelection(input string, n int) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, tok := range strings.Split(input, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		i, err := strconv.Atoi(tok)
		if err != nil || i < 0 || i >= n {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}

// Curate blacklists the candidates selected by input and saves the store.
// An empty selection does nothing. A failed save is logged and leaves the
// in-memory store updated.
func Curate(store Store, candidates []Candidate, input string, logger *slog.Logger) Curation {
	if logger == nil {
		logger = slog.Default()
	}

	res := Curation{Indices: ParseSelection(input, len(candidates))}
	if len(res.Indices) == 0 {
		return res
	}

	for _, i := range res.Indices {
		c := candidates[i]
		if store.Add(c.URL, c.IdentityKey) {
			res.Changed = true
		}
	}

	if err := store.Save(); err != nil {
		logger.Warn("blacklist save failed", "error", err)
		return res
	}
	res.Persisted = true
	return res
}
