package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/apimgr/assetsearch/src/client/paths"
)

var loginUser string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save basic-auth credentials for the search service",
	Long: `Prompt for a username and password and save them to the config directory.

The credentials are stored at ~/.config/apimgr/assetsearch/credentials (or the
platform-appropriate location) and used when server.username is not set.

Examples:
  ` + getBinaryName() + ` login
  ` + getBinaryName() + ` login --user alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove saved credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogout(cmd.OutOrStdout())
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "username")
}

func runLogin(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	user := strings.TrimSpace(loginUser)
	if user == "" {
		fmt.Fprint(out, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read username: %w", err)
		}
		user = strings.TrimSpace(line)
	}
	if user == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if strings.Contains(user, ":") {
		return fmt.Errorf("username cannot contain ':'")
	}

	fmt.Fprint(out, "Password: ")
	var pass string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(out)
		pass = string(b)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read password: %w", err)
		}
		pass = strings.TrimRight(line, "\r\n")
	}

	path := paths.CredentialsFile()
	if err := saveCredentials(path, user, pass); err != nil {
		return err
	}
	fmt.Fprintf(out, "Credentials saved to %s\n", path)
	return nil
}

func runLogout(out io.Writer) error {
	path := paths.CredentialsFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "No saved credentials found")
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	fmt.Fprintln(out, "Credentials removed")
	return nil
}

func saveCredentials(path, user, pass string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(user+":"+pass+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// loadCredentials reads the saved user:pass pair. Missing or malformed files
// yield empty strings.
func loadCredentials() (string, string) {
	data, err := os.ReadFile(paths.CredentialsFile())
	if err != nil {
		return "", ""
	}
	user, pass, ok := strings.Cut(strings.TrimRight(string(data), "\r\n"), ":")
	if !ok {
		return "", ""
	}
	return user, pass
}
