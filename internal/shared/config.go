package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the config file.
const (
	EnvSpotifyClientID     = "SPOTIFY_CLIENT_ID"
	EnvSpotifyClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvGeniusAccessToken   = "GENIUS_ACCESS_TOKEN"
	EnvOutput              = "TRACKSET_OUTPUT"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Collector   CollectorConfig   `toml:"collector"`
	Genius      GeniusConfig      `toml:"genius"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig     `toml:"spotify"`
	Genius  GeniusCredentials `toml:"genius"`
}

// SpotifyConfig contains Spotify API client-credentials settings.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenURL     string `toml:"token_url"`
	APIURL       string `toml:"api_url"`
}

// GeniusCredentials contains the Genius API bearer token.
type GeniusCredentials struct {
	AccessToken string `toml:"access_token"`
	APIURL      string `toml:"api_url"`
}

// CollectorConfig controls pagination, throttling and default output of a collection run.
type CollectorConfig struct {
	Output         string        `toml:"output"`
	PageLimit      int           `toml:"page_limit"`
	ThrottleEvery  int           `toml:"throttle_every"`
	ThrottlePause  time.Duration `toml:"throttle_pause"`
	SearchLimit    int           `toml:"search_limit"`
	RecommendLimit int           `toml:"recommend_limit"`
	RecommendEvery int           `toml:"recommend_every"`
	RecommendPause time.Duration `toml:"recommend_pause"`
}

// GeniusConfig controls lyrics lookups.
type GeniusConfig struct {
	RequestsPerSecond    float64 `toml:"requests_per_second"` // 0 disables the limiter
	RemoveSectionHeaders bool    `toml:"remove_section_headers"`
	UserAgent            string  `toml:"user_agent"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadEnvFile loads variables from a dotenv file into the process environment.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides credentials and output with any non-empty environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSpotifyClientID); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv(EnvSpotifyClientSecret); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv(EnvGeniusAccessToken); v != "" {
		c.Credentials.Genius.AccessToken = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Collector.Output = v
	}
}

// Validate checks that the credentials required for a collection run are present.
func (c *Config) Validate() error {
	if c.Credentials.Spotify.ClientID == "" || c.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: set %s and %s in .env or config.toml", ErrMissingCredentials, EnvSpotifyClientID, EnvSpotifyClientSecret)
	}
	if c.Credentials.Genius.AccessToken == "" {
		return fmt.Errorf("%w: set %s in .env or pass --genius-token", ErrMissingCredentials, EnvGeniusAccessToken)
	}
	if c.Collector.ThrottleEvery < 0 || c.Collector.RecommendEvery < 0 {
		return fmt.Errorf("%w: throttle cadence must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
