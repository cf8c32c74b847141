// Package main provides the player entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/jscyril/playdeck/api"
	"github.com/jscyril/playdeck/internal/audio"
	"github.com/jscyril/playdeck/internal/config"
	"github.com/jscyril/playdeck/internal/library"
	"github.com/jscyril/playdeck/internal/logger"
	"github.com/jscyril/playdeck/internal/playback"
	"github.com/jscyril/playdeck/internal/playlist"
	"github.com/jscyril/playdeck/internal/ui"
	"github.com/jscyril/playdeck/pkg/events"
)

var volumeSet bool

var (
	app        = kingpin.New("playdeck", "Terminal audio player")
	paths      = app.Arg("paths", "Audio files, directories or .m3u playlists to import").Strings()
	configPath = app.Flag("config", "Path to config file").Envar("PLAYDECK_CONFIG").String()
	backend    = app.Flag("backend", "Audio backend (beep or mpv)").Enum("beep", "mpv")
	volume     = app.Flag("volume", "Initial volume between 0 and 1").IsSetByUser(&volumeSet).Float64()
	shuffle    = app.Flag("shuffle", "Start with shuffle on").Bool()
	autoplay   = app.Flag("autoplay", "Start with autoplay on").Bool()
	noSeed     = app.Flag("no-seed", "Start with an empty playlist").Bool()
	readTags   = app.Flag("read-tags", "Take title and artist from file tags").Bool()
	watchDirs  = app.Flag("watch", "Import audio files added to this directory").Strings()
	logLevel   = app.Flag("log-level", "Log level (debug, info, warn, error)").Enum("debug", "info", "warn", "error")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the player. Using a separate function ensures deferred
// cleanup runs before the process exits.
func run() error {
	path := *configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	closer, err := logger.Init(logger.Config{
		Output: cfg.Log.Output,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	})
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer closer.Close()
	zlog.Info().Str("config", path).Str("backend", cfg.Audio.Backend).Msg("playdeck starting")

	// Setup context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := events.NewEventBus()
	defer bus.Close()
	media := bus.SubscribeAll()

	sources := audio.NewSources()
	sink, closeSink, err := openSink(ctx, cfg, sources, bus)
	if err != nil {
		return err
	}
	defer closeSink()

	display := ui.NewDisplay()
	dispatcher := ui.NewDispatcher(ctx)

	var seed []*api.Track
	if !cfg.Playlist.SkipSeed {
		seed = playlist.Seed()
	}

	controller := playback.NewController(playback.Deps{
		Sink:       sink,
		Display:    display,
		Dispatcher: dispatcher,
		Sources:    sources,
		Enricher:   newEnricher(cfg),
		Tracks:     seed,
	}, playback.Config{
		AutoplayDelay: cfg.AutoplayDelay(),
		Volume:        cfg.Volume(),
		Shuffle:       cfg.Playback.Shuffle,
		Autoplay:      cfg.Playback.Autoplay,
	})

	lib := library.NewLibrary(library.NewScanner(cfg.Library.Workers))

	if len(cfg.Library.WatchDirs) > 0 {
		watcher, err := library.NewWatcher(lib, cfg.Library.WatchDirs, library.DefaultSettle)
		if err != nil {
			return errors.Wrap(err, "watch directories")
		}
		go func() {
			err := watcher.Run(ctx, func(entries []api.FileEntry) {
				dispatcher.Dispatch(func() { controller.ImportTracks(entries) })
			})
			if err != nil {
				zlog.Warn().Err(err).Msg("watcher stopped")
			}
		}()
	}

	// Initial directories are imported through the UI so the scan does not
	// delay the first frame.
	imports := append(append([]string{}, cfg.Library.WatchDirs...), *paths...)

	// Sinks may still publish while shutting down.
	defer func() {
		go func() {
			for range media {
			}
		}()
	}()

	if err := ui.Run(ctx, ui.Options{
		Controller: controller,
		Display:    display,
		Dispatcher: dispatcher,
		Media:      media,
		Library:    lib,
		Accept:     browsable,
		Import:     imports,
		Theme:      cfg.UI.Theme,
	}); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run ui")
	}
	return nil
}

// applyFlags lets command-line flags override the configuration file.
func applyFlags(cfg *config.Config) error {
	if *backend != "" {
		cfg.Audio.Backend = *backend
	}
	if volumeSet {
		v := *volume
		cfg.Audio.DefaultVolume = &v
	}
	if *shuffle {
		cfg.Playback.Shuffle = true
	}
	if *autoplay {
		cfg.Playback.Autoplay = true
	}
	if *readTags {
		cfg.Library.ReadTags = true
	}
	if *noSeed {
		cfg.Playlist.SkipSeed = true
	}
	if len(*watchDirs) > 0 {
		cfg.Library.WatchDirs = append(cfg.Library.WatchDirs, *watchDirs...)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	return errors.Wrap(cfg.Validate(), "invalid options")
}

// newEnricher returns the tag reader when enabled. Imported tracks otherwise
// keep the file-name title and the default artist.
func newEnricher(cfg *config.Config) playback.TrackEnricher {
	if !cfg.Library.ReadTags {
		return nil
	}
	return library.NewMetadataReader()
}

// openSink starts the configured media backend.
func openSink(ctx context.Context, cfg *config.Config, sources *audio.Sources, bus *events.EventBus) (playback.MediaSink, func(), error) {
	switch cfg.Audio.Backend {
	case "mpv":
		sink, err := audio.StartMPV(ctx, cfg.Audio.MPVPath, sources, bus, cfg.Tick())
		if err != nil {
			return nil, nil, errors.Wrap(err, "start mpv")
		}
		return sink, func() {
			if err := sink.Close(); err != nil {
				zlog.Warn().Err(err).Msg("mpv shutdown")
			}
		}, nil
	default:
		engine := audio.NewAudioEngine(sources, bus, &audio.Speaker{}, cfg.Tick())
		engine.Start(ctx)
		return engine, engine.Close, nil
	}
}

// browsable selects the files the file browser lists.
func browsable(path string) bool {
	return audio.IsSupported(path) || library.IsPlaylist(path)
}
