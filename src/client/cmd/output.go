package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/apimgr/assetsearch/src/client/asset"
)

func printCandidates(w io.Writer, format string, res *asset.Result) error {
	switch format {
	case "json":
		return printJSON(w, map[string]any{
			"outcome":    res.Outcome.String(),
			"total_hits": res.TotalHits,
			"limit":      res.Limit,
			"rounds":     res.Rounds,
			"results":    res.Candidates,
		})
	case "plain":
		for _, c := range res.Candidates {
			fmt.Fprintln(w, c.URL)
		}
		return nil
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, paint(headingStyle, "#\tFILE\tSIZE\tSCORE\tURL"))
		for i, c := range res.Candidates {
			name := c.Name()
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\n", i, name, c.SizeString(), c.Score, c.URL)
		}
		return tw.Flush()
	}
}

// outcomeMessage summarises why retrieval stopped.
func outcomeMessage(res *asset.Result, target int) string {
	n := len(res.Candidates)
	switch res.Outcome {
	case asset.OutcomeNoResults:
		return paint(errStyle, "No results found.")
	case asset.OutcomeEnough:
		return paint(okStyle, fmt.Sprintf("%d valid results (raw hits: %d, limit %d, %d round(s)).", n, res.TotalHits, res.Limit, res.Rounds))
	case asset.OutcomeCapped:
		return paint(warnStyle, fmt.Sprintf("Stopped at cap (limit %d): %d valid results from %d raw hits.", res.Limit, n, res.TotalHits))
	case asset.OutcomeExhausted:
		msg := fmt.Sprintf("No more candidates: %d valid results from %d raw hits.", n, res.TotalHits)
		if n < target {
			msg += " (few results)"
		}
		return paint(warnStyle, msg)
	}
	return ""
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
