// Package config holds the configuration of the push bridge client.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/tinywideclouds/go-push-bridge/internal/background"
	"github.com/tinywideclouds/go-push-bridge/internal/broadcast"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
)

// Config defines the *single*, authoritative configuration.
type Config struct {
	Verbose         bool
	WakeLockTag     string
	WakeLockTimeout time.Duration
	// EventBufferSize is the per subscriber buffer of the event channel and
	// of both host streams.
	EventBufferSize int

	// Passed verbatim to the native layer by SetupPlatform.
	IOSCategories   []native.Category
	AndroidChannels []native.Channel
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("PUSH_VERBOSE"); val != "" {
		verbose, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid PUSH_VERBOSE %q: %w", val, err)
		}
		logger.Debug("Overriding config value", "key", "PUSH_VERBOSE", "source", "env")
		cfg.Verbose = verbose
	}
	if val := os.Getenv("PUSH_WAKELOCK_TAG"); val != "" {
		logger.Debug("Overriding config value", "key", "PUSH_WAKELOCK_TAG", "source", "env")
		cfg.WakeLockTag = val
	}
	if val := os.Getenv("PUSH_WAKELOCK_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid PUSH_WAKELOCK_TIMEOUT %q: %w", val, err)
		}
		logger.Debug("Overriding config value", "key", "PUSH_WAKELOCK_TIMEOUT", "source", "env")
		cfg.WakeLockTimeout = d
	}
	if val := os.Getenv("PUSH_EVENT_BUFFER"); val != "" {
		size, err := strconv.Atoi(val)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("invalid PUSH_EVENT_BUFFER %q: must be a positive integer", val)
		}
		logger.Debug("Overriding config value", "key", "PUSH_EVENT_BUFFER", "source", "env")
		cfg.EventBufferSize = size
	}

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}

func applyDefaults(cfg *Config) error {
	if cfg.WakeLockTag == "" {
		cfg.WakeLockTag = background.DefaultWakeLockTag
	}
	if cfg.WakeLockTimeout == 0 {
		cfg.WakeLockTimeout = background.DefaultWakeLockTimeout
	}
	if cfg.WakeLockTimeout < 0 {
		return fmt.Errorf("wake lock timeout must be positive, got %s", cfg.WakeLockTimeout)
	}
	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = broadcast.DefaultBufferSize
	}
	for i, ch := range cfg.AndroidChannels {
		if ch.ID == "" {
			return fmt.Errorf("android_channels[%d]: id is required", i)
		}
	}
	for i, c := range cfg.IOSCategories {
		if c.Identifier == "" {
			return fmt.Errorf("ios_categories[%d]: identifier is required", i)
		}
	}
	return nil
}
