// Package config loads peerstat settings from a YAML file, PEERSTAT_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PEERSTAT_LOG_LEVEL.
const EnvPrefix = "PEERSTAT"

type Config struct {
	DB        string          `mapstructure:"db"`
	User      string          `mapstructure:"user"`
	Catalogue CatalogueConfig `mapstructure:"catalogue"`
	Log       LogConfig       `mapstructure:"log"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
}

type CatalogueConfig struct {
	Questions string `mapstructure:"questions"`
	Units     string `mapstructure:"units"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type ArchiveConfig struct {
	// Keep is how many saved revisions to retain per learner; 0 keeps all.
	Keep int `mapstructure:"keep"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("user", "")
	v.SetDefault("catalogue.questions", "curriculum.json")
	v.SetDefault("catalogue.units", "units.json")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("archive.keep", 20)
}

// Load reads configuration into v. An explicit file must exist; otherwise
// peerstat.yaml is looked up in the working directory and the XDG config
// directory, and its absence is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("peerstat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// configDir returns $XDG_CONFIG_HOME/peerstat or ~/.config/peerstat.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "peerstat"), nil
}
