package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apimgr/assetsearch/src/client/api"
	"github.com/apimgr/assetsearch/src/client/render"
	"github.com/apimgr/assetsearch/src/client/tui"
)

var tuiHybrid bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		store, err := openBlacklist()
		if err != nil {
			return err
		}
		cfg := tui.Config{
			Retriever:  newRetriever(client, store),
			Blacklist:  store,
			Grid:       newGrid(),
			OutputPath: outputPath("output.file"),
			Request: func(query string) *api.SearchRequest {
				return textRequest(query, tuiHybrid)
			},
		}
		if openGrid() {
			cfg.Open = render.Open
		}
		return tui.Run(cfg)
	},
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiHybrid, "hybrid", false, "use the hybrid text+vector endpoint")
}
