// Package config loads client configuration: the server base URL and the
// paths under the taskdeck home directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultAPIURL is used when neither the config file nor the environment
// names a server.
const DefaultAPIURL = "http://localhost:8080"

// Config is the resolved client configuration.
type Config struct {
	APIURL   string `mapstructure:"api_url"`
	LogLevel string `mapstructure:"log_level"`
	HomeDir  string `mapstructure:"-"`
}

// Load reads ~/.taskdeck/config.yaml over defaults, then applies
// environment overrides (TASKDECK_API_URL, LOG_LEVEL).
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:   DefaultAPIURL,
		LogLevel: "info",
	}

	home, err := HomeDir()
	if err != nil {
		return cfg, nil // fall back to defaults without a home dir
	}
	cfg.HomeDir = home

	path := filepath.Join(home, "config.yaml")
	if _, statErr := os.Stat(path); statErr == nil {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if url := os.Getenv("TASKDECK_API_URL"); url != "" {
		cfg.APIURL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

// HomeDir returns (and creates) the ~/.taskdeck directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".taskdeck")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabasePath is where the session store lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.HomeDir, "taskdeck.db")
}

// LogPath is where the client log is written.
func (c *Config) LogPath() string {
	return filepath.Join(c.HomeDir, "taskdeck.log")
}
