// Package cmd implements the assetsearch cobra commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/assetsearch/src/client/api"
	"github.com/apimgr/assetsearch/src/client/asset"
	"github.com/apimgr/assetsearch/src/client/blacklist"
	"github.com/apimgr/assetsearch/src/client/paths"
	"github.com/apimgr/assetsearch/src/client/render"
)

var (
	// Build info - set via -ldflags at build time
	ProjectName = "assetsearch"
	Version     = "dev"
	CommitID    = "unknown"
	BuildDate   = "unknown"

	// Startup runs after the config file is read and before any command.
	Startup func() error

	cfgFile string
	server  string
	output  string
	noColor bool
	timeout int
)

var rootCmd = &cobra.Command{
	Use:   getBinaryName(),
	Short: "Search the 3D asset corpus by text or image",
	Long: `assetsearch queries a multimodal asset search service, renders the hits
into a preview grid and lets you blacklist bad or duplicate results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if Startup != nil {
			if err := Startup(); err != nil {
				return err
			}
		}
		initStyles()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "search service address")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format: table, json, plain")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "request timeout in seconds")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(blacklistCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(tuiCmd)
}

// setDefaults registers every config key with its default.
func setDefaults() {
	viper.SetDefault("server.address", "http://localhost:30080")
	viper.SetDefault("server.endpoint", api.DefaultEndpoint)
	viper.SetDefault("server.hybrid_endpoint", api.DefaultHybridEndpoint)
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")
	viper.SetDefault("server.timeout", 30)

	viper.SetDefault("search.initial_limit", asset.DefaultInitialLimit)
	viper.SetDefault("search.max_limit", asset.DefaultMaxLimit)
	viper.SetDefault("search.target_valid", asset.DefaultTargetValid)
	viper.SetDefault("search.embedding_field", api.DefaultEmbeddingField)
	viper.SetDefault("search.include", "usd,usda,usdc,usdz")
	viper.SetDefault("search.exclude", "png,jpg,jpeg")

	viper.SetDefault("asset.scheme", asset.DefaultScheme)
	viper.SetDefault("asset.host", asset.DefaultHost)

	viper.SetDefault("blacklist.backend", "file")
	viper.SetDefault("blacklist.file", "")
	viper.SetDefault("blacklist.redis_url", "")
	viper.SetDefault("blacklist.redis_prefix", blacklist.DefaultRedisPrefix)

	viper.SetDefault("output.format", "table")
	viper.SetDefault("output.color", "auto")
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.file", "search_result_view.png")
	viper.SetDefault("output.image_file", "image_search_result.png")
	viper.SetDefault("output.open", true)
	viper.SetDefault("output.columns", render.DefaultColumns)
	viper.SetDefault("output.max_tiles", render.DefaultMaxTiles)

	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.max_size", 10)
	viper.SetDefault("logging.max_files", 5)
}

func initConfig() {
	setDefaults()

	viper.SetEnvPrefix("ASSETSEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	path, err := paths.ResolveConfigPath(cfgFile)
	if err != nil {
		return
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: could not read config %s: %v\n", path, err)
		}
	}
}

func getBinaryName() string {
	return filepath.Base(os.Args[0])
}

func getOutputFormat() string {
	if output != "" {
		return output
	}
	return viper.GetString("output.format")
}

func getServerAddress() string {
	if server != "" {
		return server
	}
	return viper.GetString("server.address")
}

// newClient builds the API client from flags, config and saved credentials.
func newClient() (*api.Client, error) {
	addr := getServerAddress()
	if addr == "" {
		return nil, fmt.Errorf("server address not configured. Use --server or run 'config set server.address <url>'")
	}

	timeoutVal := viper.GetInt("server.timeout")
	if timeout > 0 {
		timeoutVal = timeout
	}
	if timeoutVal <= 0 {
		timeoutVal = 30
	}

	api.ProjectName = ProjectName
	api.Version = Version
	client := api.NewClient(addr, timeoutVal)
	if ep := viper.GetString("server.endpoint"); ep != "" {
		client.Endpoint = ep
	}
	if ep := viper.GetString("server.hybrid_endpoint"); ep != "" {
		client.HybridEndpoint = ep
	}

	user, pass := viper.GetString("server.username"), viper.GetString("server.password")
	if user == "" {
		user, pass = loadCredentials()
	}
	client.SetBasicAuth(user, pass)
	return client, nil
}

func blacklistPath() string {
	if p := viper.GetString("blacklist.file"); p != "" {
		return paths.Expand(p)
	}
	return paths.BlacklistFile()
}

// openBlacklist opens the configured blacklist backend. A broken file starts
// empty with a warning; an unreachable Redis is an error.
func openBlacklist() (blacklist.Backend, error) {
	switch backend := strings.ToLower(viper.GetString("blacklist.backend")); backend {
	case "", "file":
		return blacklist.Load(blacklistPath(), nil), nil
	case "redis", "valkey":
		url := viper.GetString("blacklist.redis_url")
		if url == "" {
			return nil, fmt.Errorf("blacklist.redis_url is required for the %s backend", backend)
		}
		return blacklist.OpenRedis(blacklist.RedisConfig{
			URL:     url,
			Prefix:  viper.GetString("blacklist.redis_prefix"),
			Timeout: time.Duration(viper.GetInt("server.timeout")) * time.Second,
		}, nil)
	default:
		return nil, fmt.Errorf("unknown blacklist backend %q (want file or redis)", backend)
	}
}

func newNormalizer() asset.Normalizer {
	return asset.NewNormalizer(viper.GetString("asset.scheme"), viper.GetString("asset.host"))
}

func retrievalOptions() asset.Options {
	return asset.Options{
		InitialLimit: viper.GetInt("search.initial_limit"),
		MaxLimit:     viper.GetInt("search.max_limit"),
		TargetValid:  viper.GetInt("search.target_valid"),
	}
}

func newRetriever(s asset.Searcher, store asset.Exclusions) *asset.Retriever {
	return &asset.Retriever{
		Searcher:  s,
		Extractor: asset.Extractor{Normalizer: newNormalizer()},
		Blacklist: store,
		Options:   retrievalOptions(),
	}
}

func newGrid() *render.Grid {
	return render.NewGrid(viper.GetInt("output.columns"), viper.GetInt("output.max_tiles"))
}

// textRequest builds a text or hybrid request with the configured filters.
func textRequest(query string, hybrid bool) *api.SearchRequest {
	field := viper.GetString("search.embedding_field")
	req := api.NewTextRequest(query, field)
	if hybrid {
		req = api.NewHybridRequest(query, field)
	}
	return req.WithExtensions(viper.GetString("search.include"), viper.GetString("search.exclude"))
}

func outputPath(key string) string {
	return filepath.Join(paths.Expand(viper.GetString("output.dir")), viper.GetString(key))
}
