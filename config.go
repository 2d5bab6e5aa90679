package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the engine is tuned by. Values come from an
// optional YAML config file with flag overrides applied on top.
type Config struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Workers         int           `mapstructure:"workers"`
	ShowHidden      bool          `mapstructure:"show_hidden"`
	Exclude         []string      `mapstructure:"exclude"`
}

func defaultConfig() Config {
	return Config{
		RefreshInterval: 15 * time.Minute,
		Workers:         0,
		ShowHidden:      true,
	}
}

// loadConfig reads the config file at explicit, or the first of the default
// locations that exists. A missing file is not an error; the defaults apply.
func loadConfig(explicit string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("refresh_interval", 15*time.Minute)
	v.SetDefault("workers", 0)
	v.SetDefault("show_hidden", true)

	path := explicit
	if path == "" {
		for _, candidate := range defaultConfigPaths() {
			if fileExists(candidate) {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.RefreshInterval <= 0 {
		return errors.New("config: refresh_interval must be positive")
	}
	if c.Workers < 0 {
		return errors.New("config: workers must be >= 0")
	}
	return nil
}

func (c Config) scanOptions() scanOptions {
	return scanOptions{
		ShowHidden: c.ShowHidden,
		Exclude:    newExcludeSet(c.Exclude),
		Workers:    c.Workers,
	}
}

func defaultConfigPaths() []string {
	paths := []string{}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "dirview", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "dirview", "config.yaml"))
	}
	return paths
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
