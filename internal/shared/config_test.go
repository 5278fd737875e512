package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Collector.Output != "data/raw/playlist_tracks.csv" {
			t.Errorf("expected default output data/raw/playlist_tracks.csv, got %s", config.Collector.Output)
		}
		if config.Collector.ThrottleEvery != 20 {
			t.Errorf("expected throttle every 20, got %d", config.Collector.ThrottleEvery)
		}
		if config.Collector.ThrottlePause != 2*time.Second {
			t.Errorf("expected throttle pause 2s, got %v", config.Collector.ThrottlePause)
		}
		if config.Collector.RecommendEvery != 50 {
			t.Errorf("expected recommend every 50, got %d", config.Collector.RecommendEvery)
		}
		if config.Collector.RecommendPause != time.Second {
			t.Errorf("expected recommend pause 1s, got %v", config.Collector.RecommendPause)
		}
		if config.Collector.SearchLimit != 3 {
			t.Errorf("expected search limit 3, got %d", config.Collector.SearchLimit)
		}
		if !config.Genius.RemoveSectionHeaders {
			t.Error("expected section headers to be removed by default")
		}
		if config.Credentials.Spotify.APIURL != "https://api.spotify.com/v1" {
			t.Errorf("expected spotify api url, got %s", config.Credentials.Spotify.APIURL)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Collector.Output != DefaultConfig().Collector.Output {
			t.Errorf("created config output doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[credentials.genius]
access_token = "genius_token"

[collector]
output = "/tmp/out/tracks.csv"
throttle_pause = "500ms"

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Genius.AccessToken != "genius_token" {
			t.Errorf("expected genius token, got %s", config.Credentials.Genius.AccessToken)
		}
		if config.Collector.ThrottlePause != 500*time.Millisecond {
			t.Errorf("expected throttle pause 500ms, got %v", config.Collector.ThrottlePause)
		}
		if config.Collector.ThrottleEvery != 20 {
			t.Errorf("expected unset throttle_every to keep default 20, got %d", config.Collector.ThrottleEvery)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvSpotifyClientID, "env_id")
		t.Setenv(EnvSpotifyClientSecret, "env_secret")
		t.Setenv(EnvGeniusAccessToken, "env_token")
		t.Setenv(EnvOutput, "env/out.csv")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected env client secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.Genius.AccessToken != "env_token" {
			t.Errorf("expected env genius token, got %s", config.Credentials.Genius.AccessToken)
		}
		if config.Collector.Output != "env/out.csv" {
			t.Errorf("expected env output, got %s", config.Collector.Output)
		}
	})

	t.Run("LoadEnvFile", func(t *testing.T) {
		t.Run("missing file is ignored", func(t *testing.T) {
			if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("loads values", func(t *testing.T) {
			t.Setenv(EnvGeniusAccessToken, "")
			os.Unsetenv(EnvGeniusAccessToken)

			path := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(path, []byte("GENIUS_ACCESS_TOKEN=from_dotenv\n"), 0644); err != nil {
				t.Fatalf("failed to write env file: %v", err)
			}

			if err := LoadEnvFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := os.Getenv(EnvGeniusAccessToken); got != "from_dotenv" {
				t.Errorf("expected from_dotenv, got %q", got)
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			mutate  func(c *Config)
			wantErr error
		}{
			{
				name: "complete credentials",
				mutate: func(c *Config) {
					c.Credentials.Spotify.ClientID = "id"
					c.Credentials.Spotify.ClientSecret = "secret"
					c.Credentials.Genius.AccessToken = "token"
				},
			},
			{
				name: "missing spotify secret",
				mutate: func(c *Config) {
					c.Credentials.Spotify.ClientID = "id"
					c.Credentials.Genius.AccessToken = "token"
				},
				wantErr: ErrMissingCredentials,
			},
			{
				name: "missing genius token",
				mutate: func(c *Config) {
					c.Credentials.Spotify.ClientID = "id"
					c.Credentials.Spotify.ClientSecret = "secret"
				},
				wantErr: ErrMissingCredentials,
			},
			{
				name: "negative cadence",
				mutate: func(c *Config) {
					c.Credentials.Spotify.ClientID = "id"
					c.Credentials.Spotify.ClientSecret = "secret"
					c.Credentials.Genius.AccessToken = "token"
					c.Collector.ThrottleEvery = -1
				},
				wantErr: ErrInvalidConfig,
			},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)

				err := config.Validate()
				if tt.wantErr == nil && err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})
}
