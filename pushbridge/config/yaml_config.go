package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tinywideclouds/go-push-bridge/pkg/native"
)

type YamlWakeLockConfig struct {
	Tag     string `yaml:"tag"`
	Timeout string `yaml:"timeout"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	Verbose         bool               `yaml:"verbose"`
	WakeLock        YamlWakeLockConfig `yaml:"wake_lock"`
	EventBufferSize int                `yaml:"event_buffer_size"`
	IOSCategories   []native.Category  `yaml:"ios_categories"`
	AndroidChannels []native.Channel   `yaml:"android_channels"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		Verbose:         baseCfg.Verbose,
		WakeLockTag:     baseCfg.WakeLock.Tag,
		EventBufferSize: baseCfg.EventBufferSize,
		IOSCategories:   baseCfg.IOSCategories,
		AndroidChannels: baseCfg.AndroidChannels,
	}

	if baseCfg.WakeLock.Timeout != "" {
		d, err := time.ParseDuration(baseCfg.WakeLock.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid wake_lock.timeout %q: %w", baseCfg.WakeLock.Timeout, err)
		}
		cfg.WakeLockTimeout = d
	}

	logger.Debug("YAML config mapping complete",
		"verbose", cfg.Verbose,
		"wake_lock_tag", cfg.WakeLockTag,
		"ios_categories", len(cfg.IOSCategories),
		"android_channels", len(cfg.AndroidChannels),
	)

	return cfg, nil
}
