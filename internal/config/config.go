// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the pandoc-region settings from viper (config
// file, PANDOC_REGION_* environment, flags) into a validated types.Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-region/internal/engine"
	"github.com/pdiddy/pandoc-region/pkg/types"
)

const (
	// Name is the config file base name and the config directory name.
	Name = "pandoc-region"

	// EnvPrefix prefixes every environment override, e.g. PANDOC_REGION_ENGINE.
	EnvPrefix = "PANDOC_REGION"
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("engine", engine.DefaultCommand)
	v.SetDefault("timeout", engine.DefaultTimeout)
	v.SetDefault("fallback.from", types.DefaultFallback.From)
	v.SetDefault("fallback.to", types.DefaultFallback.To)
	v.SetDefault("log_level", "info")
}

// Init points v at cfgFile, or at pandoc-region.yaml in the working
// directory and ~/.config/pandoc-region when cfgFile is empty, and enables
// environment overrides. It returns the config file used, or "" if none
// was found.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load applies defaults, decodes v and validates the result.
func Load(v *viper.Viper) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
