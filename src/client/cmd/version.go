package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s v%s (%s) built %s\n", getBinaryName(), Version, CommitID, BuildDate)

		if addr := getServerAddress(); addr != "" {
			fmt.Fprintf(out, "\nServer: %s\n", addr)
		}

		fmt.Fprintf(out, "\nBuild Info:\n")
		fmt.Fprintf(out, "  Go: %s\n", runtime.Version())
		fmt.Fprintf(out, "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "  Commit: %s\n", CommitID)
		fmt.Fprintf(out, "  Date: %s\n", BuildDate)
	},
}
