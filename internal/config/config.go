// Package config loads tool configuration from a YAML file, LEETION_*
// environment variables, and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the tool's runtime configuration.
type Config struct {
	APIKey               string `koanf:"api_key"`
	DatabaseID           string `koanf:"database_id"`
	CachePath            string `koanf:"cache_path"`
	ReposDir             string `koanf:"repos_dir"`
	SpacedRepetitionDays int    `koanf:"spaced_repetition_days"`
	Verbose              bool   `koanf:"verbose"`
}

func defaults() Config {
	return Config{
		CachePath:            "leetion.db",
		ReposDir:             "repos",
		SpacedRepetitionDays: 30,
	}
}

// Load layers the config file (if present), environment, and flags onto the
// defaults. Flag names use dashes and map onto the underscore keys.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("loading config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("LEETION_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LEETION_"))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		}), nil); err != nil {
			return Config{}, fmt.Errorf("loading flags: %w", err)
		}
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}
