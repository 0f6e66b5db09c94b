package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables overriding the configuration, e.g. RETRIE_LOG_LEVEL.
const EnvPrefix = "RETRIE"

// Config holds all configuration for logtriage
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Logcat LogcatConfig `mapstructure:"logcat"`
}

// LogConfig holds logging related configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// LogcatConfig holds parser related configuration
type LogcatConfig struct {
	// Year used to timestamp lines, 0 for the current year.
	Year            int                  `mapstructure:"year"`
	PreambleSize    int                  `mapstructure:"preamble_size"`
	DisableDefaults bool                 `mapstructure:"disable_defaults"`
	Patterns        []PatternConfig      `mapstructure:"patterns"`
	JavaCrashTags   []JavaCrashTagConfig `mapstructure:"java_crash_tags"`
}

// PatternConfig describes a custom event. Empty level and message match anything.
type PatternConfig struct {
	Tag      string `mapstructure:"tag"`
	Level    string `mapstructure:"level"`
	Message  string `mapstructure:"message"`
	Category string `mapstructure:"category"`
}

// JavaCrashTagConfig describes a tag whose lines are part of Java crashes.
type JavaCrashTagConfig struct {
	Tag      string `mapstructure:"tag"`
	Level    string `mapstructure:"level"`
	Category string `mapstructure:"category"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	v.SetDefault("logcat.year", 0)
	v.SetDefault("logcat.preamble_size", 15)
	v.SetDefault("logcat.disable_defaults", false)
}

// SlogLevel returns the configured level, or info if it cannot be parsed.
func (c *LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	if c.Logcat.Year < 0 || c.Logcat.Year > 9999 {
		return fmt.Errorf("invalid logcat year: %d", c.Logcat.Year)
	}
	if c.Logcat.PreambleSize < 0 {
		return fmt.Errorf("invalid logcat preamble size: %d", c.Logcat.PreambleSize)
	}

	var errs []error
	for i, p := range c.Logcat.Patterns {
		if p.Tag == "" {
			errs = append(errs, fmt.Errorf("logcat pattern %d: tag is required", i))
		}
		if p.Category == "" {
			errs = append(errs, fmt.Errorf("logcat pattern %d: category is required", i))
		}
	}
	for i, jc := range c.Logcat.JavaCrashTags {
		if jc.Tag == "" {
			errs = append(errs, fmt.Errorf("java crash tag %d: tag is required", i))
		}
	}

	return errors.Join(errs...)
}
