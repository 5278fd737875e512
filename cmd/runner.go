package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackset/internal/formatter"
	"github.com/desertthunder/trackset/internal/services"
	"github.com/desertthunder/trackset/internal/shared"
	"github.com/desertthunder/trackset/internal/tasks"
	"github.com/desertthunder/trackset/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Providers left nil are built from the loaded config the first time a command needs them.
type Runner struct {
	config     *shared.Config
	configured bool
	spotify    services.PlaylistProvider
	lyrics     services.LyricsProvider
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	sleep      tasks.Sleeper
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Spotify    services.PlaylistProvider
	Lyrics     services.LyricsProvider
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Sleep      tasks.Sleeper
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	configured := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configured: configured,
		spotify:    opts.Spotify,
		lyrics:     opts.Lyrics,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		sleep:      opts.Sleep,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		collectCommand, searchCommand, recommendCommand, featuresCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads .env and the config file, then applies environment overrides and the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.configured {
		if err := r.loadConfig(cmd.String("config"), cmd.String("env-file")); err != nil {
			return ctx, err
		}
	}

	level := r.config.Log.Level
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	if level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return ctx, fmt.Errorf("%w: log level %q", shared.ErrInvalidArgument, level)
		}
		shared.SetLogLevel(r.logger, lvl)
	}

	if r.config.Log.File != "" {
		logger, err := shared.NewLoggerFromConfig(shared.LogConfig{
			Level:      level,
			File:       r.config.Log.File,
			MaxSizeMB:  r.config.Log.MaxSizeMB,
			MaxBackups: r.config.Log.MaxBackups,
			MaxAgeDays: r.config.Log.MaxAgeDays,
		})
		if err != nil {
			return ctx, err
		}
		r.logger = logger
	}
	return ctx, nil
}

func (r *Runner) loadConfig(path, envFile string) error {
	if envFile != "" {
		if err := shared.LoadEnvFile(envFile); err != nil {
			return err
		}
	}

	config, err := shared.LoadConfig(path)
	switch {
	case err == nil:
		r.config = config
	case errors.Is(err, fs.ErrNotExist):
		r.logger.Debug("config file not found, using defaults", "path", path)
		r.config = shared.DefaultConfig()
	default:
		return err
	}

	r.config.ApplyEnv()
	r.configured = true
	return nil
}

// playlistProvider returns the injected provider or builds the Spotify client from config.
func (r *Runner) playlistProvider(ctx context.Context) (services.PlaylistProvider, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	creds := r.config.Credentials.Spotify
	svc, err := services.NewSpotifyService(ctx, services.SpotifyOpts{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		APIURL:       creds.APIURL,
		PageLimit:    r.config.Collector.PageLimit,
		HTTPClient:   r.httpClient,
	})
	if err != nil {
		return nil, err
	}
	if err := svc.Authenticate(ctx); err != nil {
		return nil, err
	}

	r.logger.Debug("authenticated with spotify")
	r.spotify = svc
	return svc, nil
}

// lyricsProvider returns the injected provider or builds the Genius client from config.
func (r *Runner) lyricsProvider() (services.LyricsProvider, error) {
	if r.lyrics != nil {
		return r.lyrics, nil
	}

	svc, err := services.NewGeniusService(services.GeniusOpts{
		AccessToken:          r.config.Credentials.Genius.AccessToken,
		APIURL:               r.config.Credentials.Genius.APIURL,
		UserAgent:            r.config.Genius.UserAgent,
		RequestsPerSecond:    r.config.Genius.RequestsPerSecond,
		RemoveSectionHeaders: r.config.Genius.RemoveSectionHeaders,
		HTTPClient:           r.httpClient,
	})
	if err != nil {
		return nil, err
	}

	r.lyrics = svc
	return svc, nil
}

// collector assembles a [tasks.Collector], optionally with a lyrics provider.
func (r *Runner) collector(ctx context.Context, withLyrics bool) (*tasks.Collector, error) {
	spotify, err := r.playlistProvider(ctx)
	if err != nil {
		return nil, err
	}

	opts := tasks.CollectorOpts{
		Spotify:           spotify,
		Logger:            r.logger,
		Throttle:          tasks.Throttle{Every: r.config.Collector.ThrottleEvery, Pause: r.config.Collector.ThrottlePause},
		RecommendThrottle: tasks.Throttle{Every: r.config.Collector.RecommendEvery, Pause: r.config.Collector.RecommendPause},
		Sleep:             r.sleep,
	}

	if withLyrics {
		lyrics, err := r.lyricsProvider()
		if err != nil {
			return nil, err
		}
		opts.Lyrics = lyrics
	}
	return tasks.NewCollector(opts), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", ui.Styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
