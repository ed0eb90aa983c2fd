// Package config loads explorer settings from .atlas.yaml, ATLAS_* environment
// variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names; "map.zoom" is read
// from ATLAS_MAP_ZOOM.
const EnvPrefix = "ATLAS"

// DataConfig locates the entity documents.
type DataConfig struct {
	Dir   string `mapstructure:"dir"`
	URL   string `mapstructure:"url"`
	Watch bool   `mapstructure:"watch"`
}

// MapConfig holds the initial viewport and zoom limits.
type MapConfig struct {
	CenterLat float64 `mapstructure:"center_lat"`
	CenterLng float64 `mapstructure:"center_lng"`
	Zoom      float64 `mapstructure:"zoom"`
	MinZoom   float64 `mapstructure:"min_zoom"`
	MaxZoom   float64 `mapstructure:"max_zoom"`
}

// URLConfig controls share links and URL synchronisation.
type URLConfig struct {
	Base       string `mapstructure:"base"`
	DebounceMS int    `mapstructure:"debounce_ms"`
}

// Debounce returns the URL write debounce as a duration.
func (u URLConfig) Debounce() time.Duration {
	return time.Duration(u.DebounceMS) * time.Millisecond
}

// TourConfig tunes tour camera flights.
type TourConfig struct {
	FlyDurationMS int     `mapstructure:"fly_duration_ms"`
	EaseLinearity float64 `mapstructure:"ease_linearity"`
}

// FlyDuration returns the tour flight duration.
func (t TourConfig) FlyDuration() time.Duration {
	return time.Duration(t.FlyDurationMS) * time.Millisecond
}

// SearchConfig tunes the fuzzy search index.
type SearchConfig struct {
	Limit     int     `mapstructure:"limit"`
	Threshold float64 `mapstructure:"threshold"`
}

// LogConfig selects the log level, encoding ("json" or "console") and
// destination. An empty File logs to stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TelemetryConfig enables the JSONL state-change log when Path is set.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Config holds all runtime configuration for an explorer session.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Map       MapConfig       `mapstructure:"map"`
	URL       URLConfig       `mapstructure:"url"`
	Tour      TourConfig      `mapstructure:"tour"`
	Search    SearchConfig    `mapstructure:"search"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Verbose   bool            `mapstructure:"verbose"`
}

// SetDefaults registers the built-in defaults on v. Registering every key also
// lets AutomaticEnv resolve nested keys during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.url", "")
	v.SetDefault("data.watch", false)
	v.SetDefault("map.center_lat", 0.0)
	v.SetDefault("map.center_lng", 0.0)
	v.SetDefault("map.zoom", 0.0)
	v.SetDefault("map.min_zoom", -1.0)
	v.SetDefault("map.max_zoom", 4.0)
	v.SetDefault("url.base", "")
	v.SetDefault("url.debounce_ms", 500)
	v.SetDefault("tour.fly_duration_ms", 1000)
	v.SetDefault("tour.ease_linearity", 0.25)
	v.SetDefault("search.limit", 10)
	v.SetDefault("search.threshold", 0.4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("telemetry.path", "")
	v.SetDefault("verbose", false)
}

// BindEnv configures v to read ATLAS_* variables, mapping "." to "_".
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the global viper instance, applying built-in
// defaults for any values not set by config file, environment, or flags.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load against an explicit viper instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate rejects settings the explorer cannot run with. All problems are
// reported together.
func (c Config) Validate() error {
	var errs []error
	bad := func(key, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: "+format, append([]any{ErrInvalid, key}, args...)...))
	}

	if c.Map.MinZoom > c.Map.MaxZoom {
		bad("map.min_zoom", "%v exceeds map.max_zoom %v", c.Map.MinZoom, c.Map.MaxZoom)
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		bad("map.center_lat", "%v outside [-90,90]", c.Map.CenterLat)
	}
	if c.URL.DebounceMS < 0 {
		bad("url.debounce_ms", "%d is negative", c.URL.DebounceMS)
	}
	if c.Tour.FlyDurationMS < 0 {
		bad("tour.fly_duration_ms", "%d is negative", c.Tour.FlyDurationMS)
	}
	if c.Tour.EaseLinearity <= 0 || c.Tour.EaseLinearity > 1 {
		bad("tour.ease_linearity", "%v outside (0,1]", c.Tour.EaseLinearity)
	}
	if c.Search.Limit < 1 {
		bad("search.limit", "%d must be at least 1", c.Search.Limit)
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		bad("search.threshold", "%v outside [0,1]", c.Search.Threshold)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		bad("log.format", "%q is not json or console", c.Log.Format)
	}
	return errors.Join(errs...)
}
