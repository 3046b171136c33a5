// Package config provides Viper-based configuration loading for the guessing game.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Colour modes accepted by GameConfig.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is the zap output path, e.g. "stderr" or a file path.
	Output string `mapstructure:"output"`
}

// GameConfig holds settings for the console game.
type GameConfig struct {
	// Seed makes secret draws reproducible when non-zero. Zero uses process entropy.
	Seed int64 `mapstructure:"seed"`
	// Color is the ANSI colour mode: "auto", "always", or "never".
	Color string `mapstructure:"color"`
}

// UseColor reports whether ANSI styling should be emitted.
// isTerminal is consulted only in "auto" mode.
func (g GameConfig) UseColor(isTerminal bool) bool {
	switch g.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// Values of the -seed flag with special meaning.
const (
	// SeedFlagKeep leaves game.seed as configured.
	SeedFlagKeep int64 = 0
	// SeedFlagEntropy forces crypto/rand draws even when game.seed is set.
	SeedFlagEntropy int64 = -1
)

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// WithFlags returns c with command-line overrides applied and revalidated.
// seed follows the SeedFlag* conventions; an empty color keeps game.color.
//
// Postcondition: Returns a valid Config or a non-nil error.
func (c Config) WithFlags(seed int64, color string) (Config, error) {
	switch seed {
	case SeedFlagKeep:
	case SeedFlagEntropy:
		c.Game.Seed = 0
	default:
		c.Game.Seed = seed
	}
	if color != "" {
		c.Game.Color = color
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	validColors := map[string]bool{ColorAuto: true, ColorAlways: true, ColorNever: true}
	if !validColors[g.Color] {
		return fmt.Errorf("game.color must be one of [auto, always, never], got %q", g.Color)
	}
	return nil
}

// ErrNoViper is returned by LoadFromViper when given a nil instance.
var ErrNoViper = errors.New("config: nil viper instance")

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with NUMGUESS_ prefix
	v.SetEnvPrefix("NUMGUESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, ErrNoViper
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("game.seed", 0)
	v.SetDefault("game.color", ColorAuto)
}
