// Package config loads runtime settings from defaults, an optional
// zombie.yaml and ZOMBIE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/zombie-patrol/internal/game"
)

// ErrInvalid reports a setting outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// WindowConfig holds the ebiten window size.
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// MaskConfig describes the traversability mask. An empty File selects the
// generated default arena.
type MaskConfig struct {
	File   string           `mapstructure:"file"`
	Width  int              `mapstructure:"width"`
	Height int              `mapstructure:"height"`
	Bounds game.WorldBounds `mapstructure:"bounds"`
}

// WorldConfig points at the level descriptor file. An empty File selects the
// reference level.
type WorldConfig struct {
	File string `mapstructure:"file"`
}

// ScoreboardConfig controls the high-score database.
type ScoreboardConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config is the full runtime configuration.
type Config struct {
	LogLevel   string           `mapstructure:"logLevel"`
	Window     WindowConfig     `mapstructure:"window"`
	TPS        int              `mapstructure:"tps"`
	Seed       int64            `mapstructure:"seed"` // 0 seeds from the clock
	World      WorldConfig      `mapstructure:"world"`
	Mask       MaskConfig       `mapstructure:"mask"`
	Scoreboard ScoreboardConfig `mapstructure:"scoreboard"`
	Tuning     game.Params      `mapstructure:"tuning"`
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("logLevel", "info")
	v.SetDefault("window.width", 960)
	v.SetDefault("window.height", 960)
	v.SetDefault("tps", 60)
	v.SetDefault("seed", 0)
	v.SetDefault("world.file", "")

	v.SetDefault("mask.file", "")
	v.SetDefault("mask.width", 2048)
	v.SetDefault("mask.height", 2048)
	v.SetDefault("mask.bounds.x0", -20.0)
	v.SetDefault("mask.bounds.z0", -20.0)
	v.SetDefault("mask.bounds.x1", 20.0)
	v.SetDefault("mask.bounds.z1", 20.0)

	v.SetDefault("scoreboard.enabled", true)
	v.SetDefault("scoreboard.path", "./zombie-scores.db")

	// Tuning defaults come from game.DefaultParams so every constant can be
	// overridden by key, including from the environment.
	raw, err := yaml.Marshal(game.DefaultParams())
	if err != nil {
		return fmt.Errorf("encode default tuning: %w", err)
	}
	tuning := map[string]any{}
	if err := yaml.Unmarshal(raw, &tuning); err != nil {
		return fmt.Errorf("decode default tuning: %w", err)
	}
	for k, val := range tuning {
		v.SetDefault("tuning."+k, val)
	}
	return nil
}

// Load reads the configuration. configDir may be empty, and a missing
// zombie.yaml is not an error.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("ZOMBIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configDir != "" {
		v.SetConfigName("zombie")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the ranges the simulation relies on.
func (c *Config) Validate() error {
	switch {
	case c.TPS <= 0:
		return fmt.Errorf("%w: tps must be positive, got %d", ErrInvalid, c.TPS)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Mask.Width <= 0 || c.Mask.Width%8 != 0 || c.Mask.Height <= 0:
		return fmt.Errorf("%w: mask %dx%d (width must be a positive multiple of 8)", ErrInvalid, c.Mask.Width, c.Mask.Height)
	case c.Mask.Bounds.X1 <= c.Mask.Bounds.X0 || c.Mask.Bounds.Z1 <= c.Mask.Bounds.Z0:
		return fmt.Errorf("%w: empty mask bounds %+v", ErrInvalid, c.Mask.Bounds)
	case c.Tuning.PatrolSpeed <= 0 || c.Tuning.ScanSpeed <= 0:
		return fmt.Errorf("%w: patrol and scan speeds must be positive", ErrInvalid)
	case c.Tuning.StartLives <= 0 || c.Tuning.StartBullets < 0:
		return fmt.Errorf("%w: start lives %d, bullets %d", ErrInvalid, c.Tuning.StartLives, c.Tuning.StartBullets)
	case c.Tuning.RespawnDelay < 0:
		return fmt.Errorf("%w: respawn delay must not be negative, got %d", ErrInvalid, c.Tuning.RespawnDelay)
	case c.Tuning.MessageTicks <= 0:
		return fmt.Errorf("%w: message ticks must be positive, got %d", ErrInvalid, c.Tuning.MessageTicks)
	}
	return nil
}
