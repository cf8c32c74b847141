package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "beep", cfg.Audio.Backend)
	assert.Equal(t, 1.0, cfg.Volume())
	assert.False(t, cfg.Library.ReadTags, "tags are opt-in")
	assert.Equal(t, 500*time.Millisecond, cfg.AutoplayDelay())
	assert.Equal(t, 250*time.Millisecond, cfg.Tick())
	assert.Equal(t, 4, cfg.Library.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Output)
	assert.NotEmpty(t, cfg.Log.File)
	assert.False(t, cfg.Playback.Autoplay)
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Setenv("PLAYDECK_AUDIO_BACKEND", "")
	t.Setenv("PLAYDECK_LOG_LEVEL", "")

	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "overrides",
			yaml: "audio:\n  backend: mpv\n  default_volume: 0.4\nplayback:\n  autoplay: true\n  autoplay_delay_ms: 1000\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mpv", cfg.Audio.Backend)
				assert.Equal(t, 0.4, cfg.Volume())
				assert.True(t, cfg.Playback.Autoplay)
				assert.Equal(t, time.Second, cfg.AutoplayDelay())
				assert.Equal(t, "dark", cfg.UI.Theme)
			},
		},
		{
			name: "empty file uses defaults",
			yaml: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "beep", cfg.Audio.Backend)
			},
		},
		{
			name: "explicit mute is kept",
			yaml: "audio:\n  default_volume: 0\n",
			check: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.Audio.DefaultVolume)
				assert.Equal(t, 0.0, cfg.Volume())
			},
		},
		{
			name: "tag reading can be enabled",
			yaml: "library:\n  read_tags: true\n",
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Library.ReadTags)
			},
		},
		{name: "unknown backend", yaml: "audio:\n  backend: alsa\n", wantErr: true},
		{name: "volume out of range", yaml: "audio:\n  default_volume: 2\n", wantErr: true},
		{name: "bad log level", yaml: "log:\n  level: loud\n", wantErr: true},
		{name: "too few workers", yaml: "library:\n  workers: -1\n", wantErr: true},
		{name: "malformed", yaml: "audio: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PLAYDECK_AUDIO_BACKEND", "mpv")
	t.Setenv("PLAYDECK_LOG_LEVEL", "debug")

	cfg, err := Parse([]byte("audio:\n  backend: beep\n"))
	require.NoError(t, err)
	assert.Equal(t, "mpv", cfg.Audio.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "beep", cfg.Audio.Backend)
	_, err = os.Stat(path)
	require.NoError(t, err, "defaults are written on first run")

	cfg.Playback.Shuffle = true
	mute := 0.0
	cfg.Audio.DefaultVolume = &mute
	require.NoError(t, Save(cfg, path))

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, again.Playback.Shuffle)
	assert.Equal(t, 0.0, again.Volume(), "mute survives a save")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv("PLAYDECK_CONFIG", "/etc/playdeck.yaml")
	assert.Equal(t, "/etc/playdeck.yaml", Path())

	t.Setenv("PLAYDECK_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "playdeck", "config.yaml"), Path())
}
