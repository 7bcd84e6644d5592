package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/assetsearch/src/client/api"
	"github.com/apimgr/assetsearch/src/client/asset"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <query>",
	Short: "Show the raw shape of the first hit for a query",
	Long: `Run one search and print the fields of the first hit along with what the
extractor makes of it. Useful when the service response format changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		req := textRequest(strings.Join(args, " "), false)
		req.Limit = viper.GetInt("search.initial_limit")
		if req.Limit <= 0 {
			req.Limit = asset.DefaultInitialLimit
		}

		hits, err := client.Search(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Hits: %d\n", len(hits))
		if len(hits) == 0 {
			return nil
		}
		inspectHit(out, hits[0])
		return nil
	},
}

func inspectHit(w io.Writer, hit api.Hit) {
	fmt.Fprintln(w, paint(headingStyle, "Hit keys:"))
	for _, k := range sortedKeys(hit) {
		fmt.Fprintf(w, "  %s\n", k)
	}
	if src, ok := hit["_source"].(map[string]any); ok {
		fmt.Fprintln(w, paint(headingStyle, "_source keys:"))
		for _, k := range sortedKeys(src) {
			fmt.Fprintf(w, "  %s\n", k)
		}
	}

	c, ok := asset.Extractor{Normalizer: newNormalizer()}.Extract(hit)
	fmt.Fprintln(w, paint(headingStyle, "Extracted:"))
	if !ok {
		fmt.Fprintln(w, paint(warnStyle, "  no URL field found"))
		return
	}
	fmt.Fprintf(w, "  url:   %s\n", c.URL)
	fmt.Fprintf(w, "  key:   %s\n", c.IdentityKey)
	fmt.Fprintf(w, "  size:  %s\n", c.SizeString())
	fmt.Fprintf(w, "  score: %.4f\n", c.Score)
	fmt.Fprintf(w, "  image: %d bytes\n", len(c.Image))
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
