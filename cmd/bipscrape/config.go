package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matsen/bipscrape/internal/scraper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	LibraryPath string          `json:"library_path,omitempty" yaml:"library_path,omitempty"`
	Mailto      string          `json:"mailto,omitempty" yaml:"mailto,omitempty"`
	ResolverURL string          `json:"resolver_url" yaml:"resolver_url"`
	Timeout     string          `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	RateLimit   float64         `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	Scrapers    map[string]bool `json:"scrapers" yaml:"scrapers"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadGlobalConfig()

	resp := ConfigResponse{
		LibraryPath: cfg.LibraryPath,
		Mailto:      cfg.Mailto,
		ResolverURL: cfg.ResolverURL,
		RateLimit:   cfg.RateLimit,
		Scrapers:    map[string]bool{scraper.DOIName: cfg.IsEnabled(scraper.DOIName)},
	}
	if resp.ResolverURL == "" {
		resp.ResolverURL = scraper.DOIResolverURL
	}
	if cfg.Timeout > 0 {
		resp.Timeout = cfg.Timeout.String()
	}

	if humanOutput {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return nil
	}
	return outputJSON(resp)
}
