package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/assetsearch/src/client/api"
)

var imageCmd = &cobra.Command{
	Use:   "image [path]",
	Short: "Search assets by image similarity",
	Long: `Search the asset corpus for assets that look like a local JPEG or PNG.
With no path the command prompts repeatedly; enter q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client, err := newClient()
		if err != nil {
			return err
		}
		s, err := newSession(client, cmd.InOrStdin(), cmd.OutOrStdout(), "output.image_file")
		if err != nil {
			return err
		}
		s.curate = !noCurate

		if len(args) > 0 {
			req, title, err := imageRequest(args[0])
			if err != nil {
				return err
			}
			return ignoreCanceled(ctx, s.cycle(ctx, req, title))
		}
		return s.loop(ctx, "Enter image path (q to quit): ", imageRequest)
	},
}

func init() {
	imageCmd.Flags().BoolVar(&noOpen, "no-open", false, "do not open the result grid")
	imageCmd.Flags().BoolVar(&noCurate, "no-curate", false, "skip the blacklist prompt")
}

// imageRequest encodes the file at path into an image similarity request.
func imageRequest(path string) (*api.SearchRequest, string, error) {
	path = cleanPath(path)
	if path == "" {
		return nil, "", fmt.Errorf("no image path given")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("file not found: %s", path)
	}

	uri, err := api.EncodeImageFile(path)
	if err != nil {
		return nil, "", err
	}
	req := api.NewImageRequest(uri).
		WithExtensions(viper.GetString("search.include"), viper.GetString("search.exclude"))

	name := strings.TrimSpace(filepath.Base(path))
	return req, fmt.Sprintf("Image Similarity Search: '%s'", name), nil
}
