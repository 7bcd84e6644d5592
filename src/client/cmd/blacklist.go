package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apimgr/assetsearch/src/client/asset"
)

var (
	blacklistSize int64
	clearYes      bool
)

var blacklistCmd = &cobra.Command{
	Use:   "blacklist",
	Short: "Manage blacklisted assets",
}

var blacklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blacklisted URLs and identity keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBlacklist()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if getOutputFormat() == "json" {
			return printJSON(out, map[string]any{
				"blacklisted_urls": store.URLs(),
				"blacklisted_keys": store.Keys(),
			})
		}

		fmt.Fprintln(out, paint(headingStyle, "URLs:"))
		for _, u := range store.URLs() {
			fmt.Fprintf(out, "  %s\n", u)
		}
		fmt.Fprintln(out, paint(headingStyle, "Keys:"))
		for _, k := range store.Keys() {
			fmt.Fprintf(out, "  %s\n", k)
		}
		urls, keys := store.Len()
		fmt.Fprintf(out, "\n%d URLs, %d keys\n", urls, keys)
		return nil
	},
}

var blacklistAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Blacklist an asset URL and its identity key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBlacklist()
		if err != nil {
			return err
		}

		url := newNormalizer().Normalize(args[0])
		var size *int64
		if cmd.Flags().Changed("size") {
			size = &blacklistSize
		}
		key := asset.IdentityKey(url, size)

		if !store.Add(url, key) {
			fmt.Fprintln(cmd.OutOrStdout(), paint(dimStyle, "Already blacklisted."))
			return nil
		}
		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save blacklist: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Blacklisted %s (key %s)\n", url, key)
		return nil
	},
}

var blacklistRemoveCmd = &cobra.Command{
	Use:   "remove <url-or-key>",
	Short: "Remove a URL or identity key from the blacklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBlacklist()
		if err != nil {
			return err
		}
		if !store.Remove(args[0]) {
			return fmt.Errorf("not blacklisted: %s", args[0])
		}
		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save blacklist: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

var blacklistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every blacklist entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			answer, err := p.ask(cmd.Context(), "Clear the whole blacklist? [y/N]: ")
			if err != nil || !strings.EqualFold(strings.TrimSpace(answer), "y") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		store, err := openBlacklist()
		if err != nil {
			return err
		}
		store.Clear()
		if err := store.Save(); err != nil {
			return fmt.Errorf("failed to save blacklist: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Blacklist cleared.")
		return nil
	},
}

var blacklistPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where the blacklist is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBlacklist()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
		return nil
	},
}

func init() {
	blacklistAddCmd.Flags().Int64Var(&blacklistSize, "size", 0, "asset size in bytes for the identity key")
	blacklistClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")

	blacklistCmd.AddCommand(blacklistListCmd)
	blacklistCmd.AddCommand(blacklistAddCmd)
	blacklistCmd.AddCommand(blacklistRemoveCmd)
	blacklistCmd.AddCommand(blacklistClearCmd)
	blacklistCmd.AddCommand(blacklistPathCmd)
}
