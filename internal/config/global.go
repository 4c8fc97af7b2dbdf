package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/bipscrape/config.yml.
type GlobalConfig struct {
	LibraryPath string          `yaml:"library_path,omitempty"`
	Mailto      string          `yaml:"mailto,omitempty"`       // Contact address sent in User-Agent
	ResolverURL string          `yaml:"resolver_url,omitempty"` // Overrides https://dx.doi.org/
	Timeout     time.Duration   `yaml:"timeout,omitempty"`
	RateLimit   float64         `yaml:"rate_limit,omitempty"` // Requests per second
	Scrapers    map[string]bool `yaml:"scrapers,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bipscrape"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// MailtoEnv overrides the mailto setting.
	MailtoEnv = "BIPSCRAPE_MAILTO"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bipscrape/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file at path.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	cfg := &GlobalConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if cfg.LibraryPath != "" {
		cfg.LibraryPath = ExpandTilde(cfg.LibraryPath)
	}
	if v := os.Getenv(MailtoEnv); v != "" {
		cfg.Mailto = v
	}
	return cfg, nil
}

// IsEnabled reports whether the named scraper may run. Scrapers are enabled
// unless explicitly set to false.
func (c *GlobalConfig) IsEnabled(name string) bool {
	enabled, ok := c.Scrapers[name]
	return !ok || enabled
}
