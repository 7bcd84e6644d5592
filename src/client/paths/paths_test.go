package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDirsContainProject(t *testing.T) {
	tests := []struct {
		name string
		fn   func() string
	}{
		{"ConfigDir", ConfigDir},
		{"DataDir", DataDir},
		{"CacheDir", CacheDir},
		{"LogDir", LogDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.fn()
			if dir == "" {
				t.Fatalf("%s() returned empty string", tt.name)
			}
			if !strings.Contains(dir, projectOrg) {
				t.Errorf("%s() = %q, should contain %q", tt.name, dir, projectOrg)
			}
			if !strings.Contains(dir, projectName) {
				t.Errorf("%s() = %q, should contain %q", tt.name, dir, projectName)
			}
		})
	}
}

func TestXDGOverride(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG variables are not used on Windows")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	want := filepath.Join(base, projectOrg, projectName)
	if got := DataDir(); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
	if got := BlacklistFile(); got != filepath.Join(want, "blacklist.json") {
		t.Errorf("BlacklistFile() = %q", got)
	}

	cfg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfg)
	if got, want := CredentialsFile(), filepath.Join(cfg, projectOrg, projectName, "credentials"); got != want {
		t.Errorf("CredentialsFile() = %q, want %q", got, want)
	}
}

func TestXDGOverrideIgnoresRelative(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG variables are not used on Windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "relative/dir")

	if strings.HasPrefix(ConfigDir(), "relative") {
		t.Errorf("ConfigDir() = %q, relative XDG_CONFIG_HOME should be ignored", ConfigDir())
	}
}

func TestConfigFile(t *testing.T) {
	if got := filepath.Base(ConfigFile()); got != "cli.yml" {
		t.Errorf("ConfigFile() base = %q, want cli.yml", got)
	}
	if got := filepath.Base(LogFile()); got != "cli.log" {
		t.Errorf("LogFile() base = %q, want cli.log", got)
	}
}

func TestStateFiles(t *testing.T) {
	if got, want := BlacklistFile(), filepath.Join(DataDir(), "blacklist.json"); got != want {
		t.Errorf("BlacklistFile() = %q, want %q", got, want)
	}
	if got, want := CredentialsFile(), filepath.Join(ConfigDir(), "credentials"); got != want {
		t.Errorf("CredentialsFile() = %q, want %q", got, want)
	}
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c.json")
	if err := EnsureFile(path); err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		t.Errorf("parent dir not created: %v", err)
	}
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := Expand("~/x.json"); got != filepath.Join(home, "x.json") {
		t.Errorf("Expand(~/x.json) = %q", got)
	}
	if got := Expand("/abs/x.json"); got != "/abs/x.json" {
		t.Errorf("Expand(/abs/x.json) = %q", got)
	}
	if got := Expand("~user/x"); got != "~user/x" {
		t.Errorf("Expand(~user/x) = %q, want unchanged", got)
	}
}

func TestResolveConfigPath(t *testing.T) {
	got, err := ResolveConfigPath("")
	if err != nil || got != ConfigFile() {
		t.Errorf("ResolveConfigPath(\"\") = %q, %v", got, err)
	}

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "alt.yaml")
	if err := os.WriteFile(yamlPath, []byte("server: {}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err = ResolveConfigPath(filepath.Join(dir, "alt"))
	if err != nil {
		t.Fatalf("ResolveConfigPath() error = %v", err)
	}
	if got != yamlPath {
		t.Errorf("ResolveConfigPath() = %q, want existing %q", got, yamlPath)
	}

	got, _ = ResolveConfigPath(filepath.Join(dir, "fresh"))
	if got != filepath.Join(dir, "fresh.yml") {
		t.Errorf("ResolveConfigPath() = %q, want .yml default", got)
	}

	got, _ = ResolveConfigPath(filepath.Join(dir, "cfg.toml"))
	if got != filepath.Join(dir, "cfg.toml") {
		t.Errorf("ResolveConfigPath() = %q, unknown extension should be kept", got)
	}
}
