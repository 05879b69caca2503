package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/tinywideclouds/go-push-bridge/internal/platform/apns"
	"github.com/tinywideclouds/go-push-bridge/internal/sender"
	"github.com/tinywideclouds/go-push-bridge/internal/storage/firestore"
)

type YamlRedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	CacheTTL string `yaml:"cache_ttl"`
}

type YamlAPNSConfig struct {
	KeyID    string `yaml:"key_id"`
	TeamID   string `yaml:"team_id"`
	BundleID string `yaml:"bundle_id"`
}

type YamlFirebaseConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// YamlConfig defines the structure for unmarshaling the embedded local.yaml file.
type YamlConfig struct {
	ProjectID              string             `yaml:"project_id"`
	RegistrationCollection string             `yaml:"registration_collection"`
	Concurrency            int                `yaml:"concurrency"`
	Firebase               YamlFirebaseConfig `yaml:"firebase"`
	APNS                   YamlAPNSConfig     `yaml:"apns"`
	Redis                  YamlRedisConfig    `yaml:"redis"`
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// AppConfig holds the final, validated configuration for the sender.
type AppConfig struct {
	ProjectID               string
	RegistrationCollection  string
	Concurrency             int
	FirebaseCredentialsFile string
	APNS                    apns.Config
	Redis                   RedisConfig
}

func newAppConfig(y *YamlConfig) (*AppConfig, error) {
	cfg := &AppConfig{
		ProjectID:               y.ProjectID,
		RegistrationCollection:  y.RegistrationCollection,
		Concurrency:             y.Concurrency,
		FirebaseCredentialsFile: y.Firebase.CredentialsFile,
		APNS: apns.Config{
			KeyID:    y.APNS.KeyID,
			TeamID:   y.APNS.TeamID,
			BundleID: y.APNS.BundleID,
		},
		Redis: RedisConfig{
			Enabled:  y.Redis.Enabled,
			Addr:     y.Redis.Addr,
			Password: y.Redis.Password,
			DB:       y.Redis.DB,
		},
	}
	if y.Redis.CacheTTL != "" {
		ttl, err := time.ParseDuration(y.Redis.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis.cache_ttl %q: %w", y.Redis.CacheTTL, err)
		}
		cfg.Redis.CacheTTL = ttl
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig, logger *slog.Logger) (*AppConfig, error) {
	override := func(key string, dst *string) {
		if val := os.Getenv(key); val != "" {
			logger.Debug("Overriding config value", "key", key, "source", "env")
			*dst = val
		}
	}
	override("PROJECT_ID", &cfg.ProjectID)
	override("FIREBASE_CREDENTIALS_FILE", &cfg.FirebaseCredentialsFile)
	override("APNS_KEY_ID", &cfg.APNS.KeyID)
	override("APNS_TEAM_ID", &cfg.APNS.TeamID)
	override("APNS_BUNDLE_ID", &cfg.APNS.BundleID)
	override("APNS_P8_KEY", &cfg.APNS.P8KeyContent)
	override("REDIS_ADDR", &cfg.Redis.Addr)
	override("REDIS_PASSWORD", &cfg.Redis.Password)

	if val := os.Getenv("REDIS_DB"); val != "" {
		db, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", val, err)
		}
		logger.Debug("Overriding config value", "key", "REDIS_DB", "source", "env")
		cfg.Redis.DB = db
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_ENABLED %q: %w", val, err)
		}
		logger.Debug("Overriding config value", "key", "REDIS_ENABLED", "source", "env")
		cfg.Redis.Enabled = enabled
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID is required")
	}
	if cfg.RegistrationCollection == "" {
		cfg.RegistrationCollection = firestore.DefaultCollection
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = sender.DefaultConcurrency
	}
	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 24 * time.Hour
	}
	return cfg, nil
}

// apnsEnabled reports whether enough credentials are present to build the
// APNs provider.
func (c *AppConfig) apnsEnabled() bool {
	return c.APNS.KeyID != "" && c.APNS.TeamID != "" && c.APNS.P8KeyContent != ""
}
