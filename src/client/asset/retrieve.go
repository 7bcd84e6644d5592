package asset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apimgr/assetsearch/src/client/api"
)

// Default retrieval window settings.
const (
	DefaultInitialLimit = 10
	DefaultMaxLimit     = 200
	DefaultTargetValid  = 10
)

// Searcher issues one search request. *api.Client implements it.
type Searcher interface {
	Search(ctx context.Context, req *api.SearchRequest) ([]api.Hit, error)
}

// Exclusions reports blacklisted URLs and identity keys. *blacklist.Store implements it.
type Exclusions interface {
	ContainsURL(url string) bool
	ContainsKey(key string) bool
}

// Outcome says why the retrieval loop stopped.
type Outcome int

const (
	// OutcomeEnough means the target number of valid candidates was reached.
	OutcomeEnough Outcome = iota
	// OutcomeCapped means the window hit the maximum limit first.
	OutcomeCapped
	// OutcomeExhausted means the service stopped returning new hits.
	OutcomeExhausted
	// OutcomeNoResults means the first round returned nothing at all.
	OutcomeNoResults
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEnough:
		return "enough"
	case OutcomeCapped:
		return "stopped at cap"
	case OutcomeExhausted:
		return "no more candidates"
	case OutcomeNoResults:
		return "no results"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Options controls the adaptive window.
type Options struct {
	InitialLimit int
	MaxLimit     int
	TargetValid  int
}

// DefaultOptions returns 10 → 200 doubling with a target of 10 valid results.
func DefaultOptions() Options {
	return Options{
		InitialLimit: DefaultInitialLimit,
		MaxLimit:     DefaultMaxLimit,
		TargetValid:  DefaultTargetValid,
	}
}

func (o Options) withDefaults() Options {
	if o.InitialLimit <= 0 {
		o.InitialLimit = DefaultInitialLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = DefaultMaxLimit
	}
	if o.InitialLimit > o.MaxLimit {
		o.InitialLimit = o.MaxLimit
	}
	if o.TargetValid <= 0 {
		o.TargetValid = DefaultTargetValid
	}
	return o
}

// Result is the outcome of one retrieval.
type Result struct {
	// Candidates are the valid candidates of the final round, in service order.
	Candidates []Candidate
	// TotalHits is the raw hit count of the final round.
	TotalHits int
	// Limit is the window used by the final round.
	Limit   int
	Rounds  int
	Outcome Outcome
}

// Retriever runs the adaptive retrieval loop.
type Retriever struct {
	Searcher  Searcher
	Extractor Extractor
	Blacklist Exclusions
	Options   Options
	Logger    *slog.Logger
}

func (r *Retriever) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Retrieve searches with a growing window until enough valid candidates
// survive filtering, the window reaches its cap, or the service stops
// returning new hits. Search errors abort immediately; only under-filled
// result sets are retried.
func (r *Retriever) Retrieve(ctx context.Context, base *api.SearchRequest) (*Result, error) {
	opts := r.Options.withDefaults()
	limit := opts.InitialLimit
	prevTotal := -1

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := *base
		req.Limit = limit

		hits, err := r.Searcher.Search(ctx, &req)
		if err != nil {
			return nil, fmt.Errorf("search round %d (limit %d): %w", round, limit, err)
		}

		total := len(hits)
		valid := FilterCandidates(r.Extractor.ExtractAll(hits), r.Blacklist)

		r.logger().Debug("retrieval round",
			"query", base.Query(),
			"round", round,
			"limit", limit,
			"raw", total,
			"valid", len(valid),
		)

		res := &Result{
			Candidates: valid,
			TotalHits:  total,
			Limit:      limit,
			Rounds:     round,
		}

		switch {
		case round == 1 && total == 0:
			res.Outcome = OutcomeNoResults
			return res, nil
		case len(valid) >= opts.TargetValid:
			res.Outcome = OutcomeEnough
			return res, nil
		case limit >= opts.MaxLimit:
			res.Outcome = OutcomeCapped
			return res, nil
		case total <= prevTotal:
			res.Outcome = OutcomeExhausted
			return res, nil
		}

		prevTotal = total
		limit = min(limit*2, opts.MaxLimit)
	}
}

// FilterCandidates drops blacklisted candidates and repeated identity keys,
// keeping the first occurrence. Candidates without a key are only checked
// against the URL blacklist. ex may be nil.
func FilterCandidates(candidates []Candidate, ex Exclusions) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if ex != nil && ex.ContainsURL(c.URL) {
			continue
		}
		if c.IdentityKey != "" {
			if ex != nil && ex.ContainsKey(c.IdentityKey) {
				continue
			}
			if _, dup := seen[c.IdentityKey]; dup {
				continue
			}
			seen[c.IdentityKey] = struct{}{}
		}
		out = append(out, c)
	}
	return out
}
