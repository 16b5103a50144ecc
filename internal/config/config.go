package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	Detect DetectConfig `mapstructure:"detect"`
	Track  TrackConfig  `mapstructure:"track"`
}

// DetectConfig tunes error detection
type DetectConfig struct {
	// DedupWindow suppresses identical (file, line, message) errors
	// repeating within this interval. Duration string, e.g. "2s".
	DedupWindow string `mapstructure:"dedup_window"`
	// ContextRadius is how many lines around the error line are
	// included in the context snippet.
	ContextRadius int `mapstructure:"context_radius"`
	// Roots are project roots for resolving terminal file references
	Roots []string `mapstructure:"roots"`
}

// TrackConfig tunes fix tracking
type TrackConfig struct {
	// DiagnosticsSettle delays the diff after diagnostics clear ("500ms")
	DiagnosticsSettle string `mapstructure:"diagnostics_settle"`
	// ContentSettle debounces raw content changes ("1500ms")
	ContentSettle string `mapstructure:"content_settle"`
	// AutoTrack starts a tracking session on every captured error
	AutoTrack bool `mapstructure:"auto_track"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "ndjson",
		Quiet:   false,
		Verbose: false,
		Detect: DetectConfig{
			DedupWindow:   "2s",
			ContextRadius: 5,
		},
		Track: TrackConfig{
			DiagnosticsSettle: "500ms",
			ContentSettle:     "1500ms",
			AutoTrack:         true,
		},
	}
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("fixwatch")
	v.SetConfigType("yaml")

	// Config paths in order of precedence, lowest first
	v.AddConfigPath("/etc/fixwatch/")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "fixwatch"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".fixwatch")
	}
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("FIXWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.BindEnv("format", "FIXWATCH_FORMAT")
	v.BindEnv("quiet", "FIXWATCH_QUIET")
	v.BindEnv("verbose", "FIXWATCH_VERBOSE")
	v.BindEnv("detect.dedup_window", "FIXWATCH_DEDUP_WINDOW")
	v.BindEnv("track.auto_track", "FIXWATCH_AUTO_TRACK")

	// Set defaults
	cfg := Default()
	v.SetDefault("format", cfg.Format)
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("detect.dedup_window", cfg.Detect.DedupWindow)
	v.SetDefault("detect.context_radius", cfg.Detect.ContextRadius)
	v.SetDefault("track.diagnostics_settle", cfg.Track.DiagnosticsSettle)
	v.SetDefault("track.content_settle", cfg.Track.ContentSettle)
	v.SetDefault("track.auto_track", cfg.Track.AutoTrack)

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found; use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that was loaded
func ConfigFile() string {
	v := viper.New()

	v.SetConfigName("fixwatch")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	v.SetConfigName(".fixwatch")
	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	return ""
}
