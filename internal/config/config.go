// Package config loads the player configuration from a YAML file.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Audio    AudioConfig    `yaml:"audio"`
	Playback PlaybackConfig `yaml:"playback"`
	Playlist PlaylistConfig `yaml:"playlist"`
	Library  LibraryConfig  `yaml:"library"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

// AudioConfig selects and tunes the media backend.
type AudioConfig struct {
	Backend       string   `yaml:"backend" default:"beep" validate:"oneof=beep mpv"`
	MPVPath       string   `yaml:"mpv_path" default:"mpv"`
	DefaultVolume *float64 `yaml:"default_volume" default:"1" validate:"required,gte=0,lte=1"`
}

// PlaybackConfig holds the initial playback toggles.
type PlaybackConfig struct {
	AutoplayDelayMs int  `yaml:"autoplay_delay_ms" default:"500" validate:"gte=0,lte=10000"`
	Autoplay        bool `yaml:"autoplay"`
	Shuffle         bool `yaml:"shuffle"`
}

// PlaylistConfig controls the initial playlist.
type PlaylistConfig struct {
	SkipSeed bool `yaml:"skip_seed"`
}

// LibraryConfig controls file import.
type LibraryConfig struct {
	Workers   int      `yaml:"workers" default:"4" validate:"gte=1,lte=64"`
	ReadTags  bool     `yaml:"read_tags"`
	WatchDirs []string `yaml:"watch_dirs"`
}

// UIConfig controls the terminal interface.
type UIConfig struct {
	TickMs int    `yaml:"tick_ms" default:"250" validate:"gte=50,lte=5000"`
	Theme  string `yaml:"theme" default:"dark" validate:"oneof=dark light"`
}

// LogConfig controls logging. The terminal belongs to the UI, so logs go to
// a file unless stderr is asked for.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Output string `yaml:"output" default:"file" validate:"oneof=file stderr stdout"`
	File   string `yaml:"file"`
}

// AutoplayDelay returns the autoplay delay as a duration.
func (c *Config) AutoplayDelay() time.Duration {
	return time.Duration(c.Playback.AutoplayDelayMs) * time.Millisecond
}

// Volume returns the initial volume. An explicit 0 in the file is kept.
func (c *Config) Volume() float64 {
	if c.Audio.DefaultVolume == nil {
		return 1
	}
	return *c.Audio.DefaultVolume
}

// Tick returns the UI progress refresh interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.UI.TickMs) * time.Millisecond
}

// Default returns the default configuration.
func Default() *Config {
	var cfg Config
	// Defaults are static tags; failure here is a programming error.
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	cfg.fillDerived()
	return &cfg
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.fillDerived()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("PLAYDECK_AUDIO_BACKEND"); v != "" {
		c.Audio.Backend = v
	}
	if v := os.Getenv("PLAYDECK_MPV_PATH"); v != "" {
		c.Audio.MPVPath = v
	}
	if v := os.Getenv("PLAYDECK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PLAYDECK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

func (c *Config) fillDerived() {
	if c.Log.File == "" {
		c.Log.File = filepath.Join(stateDir(), "playdeck.log")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// Save marshals and saves configuration to file
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// LoadOrCreate loads config from path or writes and returns the defaults
// if the file does not exist.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(cfg, path); err != nil {
			return nil, errors.Wrap(err, "failed to save default config")
		}
		return cfg, nil
	}
	return Load(path)
}

// Path returns the default config file path
func Path() string {
	// Check environment variable first
	if path := os.Getenv("PLAYDECK_CONFIG"); path != "" {
		return path
	}

	// Use XDG config directory if available
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "playdeck", "config.yaml")
	}

	// Fall back to home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}
	return filepath.Join(home, ".config", "playdeck", "config.yaml")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "playdeck")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "playdeck")
	}
	return os.TempDir()
}
