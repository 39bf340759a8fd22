package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the CLI configuration read from an optional file and SCHEMAFORM_*
// environment variables. Flags given on the command line take precedence.
type Config struct {
	Language      string        `mapstructure:"language"`
	PatternPolicy string        `mapstructure:"pattern_policy"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFormat     string        `mapstructure:"log_format"`
	Mounts        []MountConfig `mapstructure:"mounts"`
	Rules         []RuleConfig  `mapstructure:"rules"`
}

// MountConfig places a schema file at a mount point. Async mounts are loaded
// after the others are validated.
type MountConfig struct {
	Point  string `mapstructure:"point"`
	Schema string `mapstructure:"schema"`
	Async  bool   `mapstructure:"async"`
}

// RuleConfig adds, replaces or deletes one rule of the compiled tree. Path is
// the dot path of the value the rule checks ("." for the root).
type RuleConfig struct {
	Path   string `mapstructure:"path"`
	Name   string `mapstructure:"name"`
	Expr   string `mapstructure:"expr"`
	Delete bool   `mapstructure:"delete"`
}

const envPrefix = "SCHEMAFORM"

func loadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("language", "en")
	v.SetDefault("pattern_policy", "strict")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
