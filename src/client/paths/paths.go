// Package paths resolves the CLI's config, data, cache and log locations.
// Linux and macOS follow XDG (honouring XDG_*_HOME), Windows uses APPDATA/LOCALAPPDATA.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	projectOrg  = "apimgr"
	projectName = "assetsearch"
)

// xdgDir returns $env/<org>/<name> when env is set, otherwise ~/<fallback>/<org>/<name>.
func xdgDir(env string, fallback ...string) string {
	if base := os.Getenv(env); base != "" && filepath.IsAbs(base) {
		return filepath.Join(base, projectOrg, projectName)
	}
	home, _ := os.UserHomeDir()
	parts := append([]string{home}, fallback...)
	parts = append(parts, projectOrg, projectName)
	return filepath.Join(parts...)
}

// ConfigDir returns the CLI config directory
// Linux: ~/.config/apimgr/assetsearch/
// Windows: %APPDATA%\apimgr\assetsearch\
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), projectOrg, projectName)
	}
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the CLI data directory. The blacklist lives here.
// Linux: ~/.local/share/apimgr/assetsearch/
// Windows: %LOCALAPPDATA%\apimgr\assetsearch\data\
func DataDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "data")
	}
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// CacheDir returns the CLI cache directory
func CacheDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "cache")
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// LogDir returns the CLI log directory
func LogDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("LOCALAPPDATA"), projectOrg, projectName, "log")
	}
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// ConfigFile returns the CLI config file path
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "cli.yml")
}

// LogFile returns the CLI log file path
func LogFile() string {
	return filepath.Join(LogDir(), "cli.log")
}

// CredentialsFile returns the saved basic-auth credentials path.
func CredentialsFile() string {
	return filepath.Join(ConfigDir(), "credentials")
}

// BlacklistFile returns the default blacklist location.
func BlacklistFile() string {
	return filepath.Join(DataDir(), "blacklist.json")
}

// EnsureDirs creates all CLI directories with 0700 permissions.
// Called on every startup before any file operations.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		DataDir(),
		CacheDir(),
		LogDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
		if err := os.Chmod(dir, 0700); err != nil {
			return fmt.Errorf("chmod dir %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureFile creates the parent directory of path.
func EnsureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return nil
}

// Expand replaces a leading ~ with the user's home directory.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// ResolveConfigPath resolves the --config flag to an absolute path.
// Relative names are taken from ConfigDir; a missing extension becomes .yml
// unless a .yaml file already exists.
func ResolveConfigPath(configFlag string) (string, error) {
	if configFlag == "" {
		return ConfigFile(), nil
	}

	configFlag = Expand(configFlag)
	if filepath.IsAbs(configFlag) {
		return addExtIfNeeded(configFlag)
	}
	return addExtIfNeeded(filepath.Join(ConfigDir(), configFlag))
}

func addExtIfNeeded(path string) (string, error) {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return path, nil
	case "":
		ymlPath := path + ".yml"
		if _, err := os.Stat(ymlPath); err == nil {
			return ymlPath, nil
		}
		yamlPath := path + ".yaml"
		if _, err := os.Stat(yamlPath); err == nil {
			return yamlPath, nil
		}
		return ymlPath, nil
	default:
		return path, nil
	}
}
