package main

import (
	"os"

	"github.com/apimgr/assetsearch/src/client/cmd"
)

func main() {
	cmd.Startup = InitCLI
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
