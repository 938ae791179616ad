package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "frvmusic"

type Config struct {
	CatalogPath   string `koanf:"catalog_path" default:"catalog.json" validate:"required"`
	StatePath     string `koanf:"state_path"`                   // empty means the XDG data dir
	Notifications bool   `koanf:"notifications" default:"true"` // desktop notification on track change

	Playback PlaybackConfig `koanf:"playback"`
	Embed    EmbedConfig    `koanf:"embed"`
	Log      LogConfig      `koanf:"log"`
}

// PlaybackConfig holds coordinator and transport settings.
type PlaybackConfig struct {
	DefaultVolume  float64 `koanf:"default_volume" default:"0.8" validate:"gte=0,lte=1"` // used until a volume is saved
	PollIntervalMs int     `koanf:"poll_interval_ms" default:"500" validate:"gte=50,lte=10000"`
	SkipUnplayable bool    `koanf:"skip_unplayable"` // advance past tracks with no source
	SeekStepSec    float64 `koanf:"seek_step_sec" default:"5" validate:"gt=0,lte=300"`
}

// EmbedConfig holds the embedded video player settings.
type EmbedConfig struct {
	Driver      string   `koanf:"driver" default:"mpv" validate:"oneof=mpv none"`
	MPVPath     string   `koanf:"mpv_path" default:"mpv"`
	MPVArgs     []string `koanf:"mpv_args"`
	DefaultMode string   `koanf:"default_mode" default:"sidebar" validate:"oneof=sidebar fullscreen hidden bottom-right top-left"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `koanf:"level" default:"info" validate:"oneof=debug info warn error"`
	File  string `koanf:"file"` // empty means the XDG state dir
}

// Load reads configuration. With an explicit path only that file is
// read and it must exist; otherwise the standard locations are tried in
// order, later files overriding earlier ones.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load %s", path)
		}
	} else {
		for _, p := range getConfigPaths() {
			if _, err := os.Stat(p); err == nil {
				if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
					return nil, errors.Wrapf(err, "load %s", p)
				}
			}
		}
	}

	// Defaults go in first; Unmarshal only overwrites keys present in
	// the files, so an explicit zero survives.
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "set defaults")
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg.CatalogPath = expandPath(cfg.CatalogPath)
	cfg.StatePath = expandPath(cfg.StatePath)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Embed.MPVPath = expandPath(cfg.Embed.MPVPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}
	return nil
}

// PollInterval returns the embedded progress polling period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Playback.PollIntervalMs) * time.Millisecond
}

// EmbedEnabled reports whether an embedded video driver is configured.
func (c *Config) EmbedEnabled() bool {
	return c.Embed.Driver != "none"
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/frvmusic/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
