// Package main provides the bipscrape CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/bipscrape/internal/config"
	"github.com/matsen/bipscrape/internal/fetch"
	"github.com/matsen/bipscrape/internal/scraper"
	"github.com/matsen/bipscrape/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	humanOutput bool
	logJSON     bool
	verbose     bool
	configPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bipscrape",
	Short: "Fill in paper metadata from the DOI resolver",
	Long: `bipscrape looks up papers by DOI and fills in their metadata
(title, authors, year, venue, volume, issue, pages, publisher).

Papers live in .bipscrape/papers.jsonl; an SQLite index under
.bipscrape/cache is rebuilt from it for searching.
All commands output JSON by default. Use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for BIPSCRAPE_MAILTO)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs to stderr as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yml (default $XDG_CONFIG_HOME/bipscrape/config.yml)")
	rootCmd.Version = Version
}

// newLogger builds the stderr logger used for progress and diagnostics.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if logJSON {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()
}

// mustLoadGlobalConfig loads the global config, exits on error.
func mustLoadGlobalConfig() *config.GlobalConfig {
	path := configPath
	if path == "" {
		path = config.GlobalConfigPath()
	}
	cfg, err := config.LoadGlobalConfig(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustFindLibrary finds the library from the configured path or the
// current directory, exits on error.
func mustFindLibrary(cfg *config.GlobalConfig) string {
	start := cfg.LibraryPath
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			exitWithError(ExitError, "getting current directory: %v", err)
		}
		start = cwd
	}

	root, err := config.FindLibrary(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'bipscrape init' to create one.", err)
	}
	return root
}

// mustOpenDatabase opens the SQLite index, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// newDOIScraper wires the DOI scraper to configuration and logging.
func newDOIScraper(cfg *config.GlobalConfig, log zerolog.Logger) *scraper.DOI {
	var opts []scraper.DOIOption
	if cfg.ResolverURL != "" {
		opts = append(opts, scraper.WithBaseURL(cfg.ResolverURL))
	}
	progress := scraper.LogProgress(log.With().Str("scraper", scraper.DOIName).Logger())
	return scraper.NewDOI(cfg, progress, opts...)
}

// newFetcher builds the HTTP transport from configuration.
func newFetcher(cfg *config.GlobalConfig) *fetch.Client {
	return fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithRateLimit(cfg.RateLimit),
		fetch.WithUserAgent(fetch.UserAgent(Version, cfg.Mailto)),
	)
}
