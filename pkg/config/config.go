package config

import (
	"context"
	"time"
)

// Config represents the complete configuration for tagflat.
type Config struct {
	Flatten FlattenConfig `koanf:"flatten" validate:"required"`
	Walk    WalkConfig    `koanf:"walk"`
	Watch   WatchConfig   `koanf:"watch"`
	Log     LogConfig     `koanf:"log"`
}

// FlattenConfig controls which files are rewritten and how tags are matched.
type FlattenConfig struct {
	Extensions   []string `koanf:"extensions"    validate:"min=1,dive,file_ext" env:"TAGFLAT_FLATTEN_EXTENSIONS"`
	ExcludedTags []string `koanf:"excluded_tags"                              env:"TAGFLAT_FLATTEN_EXCLUDED_TAGS"`
	QuoteAware   bool     `koanf:"quote_aware"                                env:"TAGFLAT_FLATTEN_QUOTE_AWARE"`
}

// WalkConfig controls directory traversal and the worker pool.
type WalkConfig struct {
	Exclude []string `koanf:"exclude"                        env:"TAGFLAT_WALK_EXCLUDE"`
	Workers int      `koanf:"workers" validate:"min=1,max=256" env:"TAGFLAT_WALK_WORKERS"`
}

// WatchConfig controls how file change events are batched in watch mode.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" validate:"gt=0" env:"TAGFLAT_WATCH_DEBOUNCE"`
	MaxWait  time.Duration `koanf:"max_wait" validate:"gt=0" env:"TAGFLAT_WATCH_MAX_WAIT"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error disabled" env:"TAGFLAT_LOG_LEVEL"`
	JSON   bool   `koanf:"json"                                                  env:"TAGFLAT_LOG_JSON"`
	Source bool   `koanf:"source"                                                env:"TAGFLAT_LOG_SOURCE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Flatten: FlattenConfig{
			Extensions:   []string{".jsx", ".tsx"},
			ExcludedTags: []string{"svg", "path", "g"},
			QuoteAware:   false,
		},
		Walk: WalkConfig{
			Exclude: []string{"**/node_modules"},
			Workers: 8,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
			MaxWait:  2 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			JSON:   false,
			Source: false,
		},
	}
}

// SourceType identifies where a configuration value came from.
type SourceType string

const (
	SourceDefault SourceType = "default"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceCLI     SourceType = "cli"
)

// Source provides configuration data. Sources passed to Service.Load are
// applied in order, so later sources take precedence.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// Metadata records the origin of every loaded key.
type Metadata struct {
	Sources  map[string]SourceType
	LoadedAt time.Time
}

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	GetSource(key string) SourceType
	// Values returns the effective configuration as flattened dot-notation keys.
	Values() map[string]any
}
