// Package main is the assetsearch command-line client.
package main

import (
	"fmt"
	"os"

	"github.com/apimgr/assetsearch/src/client/paths"
)

// InitCLI prepares the environment once the config file has been read:
// directories first, then logging. A log file that cannot be opened is not
// fatal; warnings still reach stderr.
func InitCLI() error {
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("init directories: %w", err)
	}

	if err := InitLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize log file: %v\n", err)
	}
	return nil
}
