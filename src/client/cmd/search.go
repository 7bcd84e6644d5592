package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/assetsearch/src/client/api"
	"github.com/apimgr/assetsearch/src/client/display"
)

var (
	searchHybrid bool
	noOpen       bool
	noCurate     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search assets by text",
	Long: `Search the asset corpus with a text query. With no query the command
prompts repeatedly; enter q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client, err := newClient()
		if err != nil {
			return err
		}
		s, err := newSession(client, cmd.InOrStdin(), cmd.OutOrStdout(), "output.file")
		if err != nil {
			return err
		}
		s.curate = !noCurate

		build := func(query string) (*api.SearchRequest, string, error) {
			return textRequest(query, searchHybrid), fmt.Sprintf("Search: '%s'", query), nil
		}

		if len(args) > 0 {
			req, title, _ := build(strings.Join(args, " "))
			return ignoreCanceled(ctx, s.cycle(ctx, req, title))
		}
		return s.loop(ctx, "Enter search query (q to quit): ", build)
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchHybrid, "hybrid", false, "use the hybrid text+vector endpoint")
	searchCmd.Flags().BoolVar(&noOpen, "no-open", false, "do not open the result grid")
	searchCmd.Flags().BoolVar(&noCurate, "no-curate", false, "skip the blacklist prompt")
}

// openGrid reports whether the rendered grid should be handed to a viewer.
func openGrid() bool {
	if noOpen || !viper.GetBool("output.open") {
		return false
	}
	if env := display.Detect(); !env.HasDisplay() {
		slog.Debug("no graphical display, not opening grid", "remote", env.Remote)
		return false
	}
	return true
}

// ignoreCanceled treats an interrupt as a clean exit.
func ignoreCanceled(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
