package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FeedConfig holds the feed pagination settings
type FeedConfig struct {
	DefaultLimit int    `toml:"default_limit"`
	MaxLimit     int    `toml:"max_limit"`
	Window       string `toml:"window"` // "keyset" or "head"
}

// RankingConfig holds the leaderboard settings
type RankingConfig struct {
	Size int      `toml:"size"`
	TTL  Duration `toml:"ttl"`
}

// AuthConfig lists the path prefixes that require a session
type AuthConfig struct {
	ProtectedRoutes []string `toml:"protected_routes"`
	PublicRoutes    []string `toml:"public_routes"`
}

type ServerConfig struct {
	CorsOrigins string `toml:"cors_origins"`

	// APIEnabled false answers every /api path with 503
	APIEnabled bool `toml:"api_enabled"`
}

// apiEnvVars switch the API off when set to "false", overriding the file
var apiEnvVars = []string{"ZROOM_API_ENABLED", "API_ENABLED"}

func applyEnv(config *Config) {
	for _, name := range apiEnvVars {
		if os.Getenv(name) == "false" {
			config.Server.APIEnabled = false
		}
	}
}

// Config represents the top-level configuration
type Config struct {
	Feed    FeedConfig    `toml:"feed"`
	Ranking RankingConfig `toml:"ranking"`
	Auth    AuthConfig    `toml:"auth"`
	Server  ServerConfig  `toml:"server"`
}

// Duration decodes TOML strings such as "1h" or "30m"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func Default() *Config {
	config := &Config{
		Feed: FeedConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
			Window:       "keyset",
		},
		Ranking: RankingConfig{
			Size: 20,
			TTL:  Duration{time.Hour},
		},
		Auth: AuthConfig{
			ProtectedRoutes: []string{"/api/superpet/ranking/refresh"},
		},
		Server: ServerConfig{
			CorsOrigins: "http://localhost:3000",
			APIEnabled:  true,
		},
	}
	applyEnv(config)
	return config
}

// LoadConfig reads the TOML file at path on top of the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	applyEnv(config)

	if config.Feed.DefaultLimit < 1 {
		return nil, fmt.Errorf("feed.default_limit must be positive, got %d", config.Feed.DefaultLimit)
	}
	if config.Feed.MaxLimit < config.Feed.DefaultLimit {
		return nil, fmt.Errorf("feed.max_limit %d is below feed.default_limit %d", config.Feed.MaxLimit, config.Feed.DefaultLimit)
	}

	return config, nil
}
