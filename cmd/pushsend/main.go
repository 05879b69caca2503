// Command pushsend delivers a push notification to a raw token or to every
// device registered for a user.
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"

	"github.com/tinywideclouds/go-push-bridge/internal/platform/apns"
	"github.com/tinywideclouds/go-push-bridge/internal/platform/fcm"
	"github.com/tinywideclouds/go-push-bridge/internal/sender"
	"github.com/tinywideclouds/go-push-bridge/internal/storage/cache"
	fsStore "github.com/tinywideclouds/go-push-bridge/internal/storage/firestore"
	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

//go:embed local.yaml
var configFile []byte

// errAllFailed reports that no device of the user received the push.
var errAllFailed = errors.New("every send failed")

func main() {
	var logLevel slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		logLevel = slog.LevelDebug
	case "warn", "WARN":
		logLevel = slog.LevelWarn
	case "error", "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})).With("service", "pushsend")
	slog.SetDefault(logger)

	req, err := parseArgs(os.Args[1:])
	if err != nil {
		logger.Error("Invalid arguments", "err", err)
		os.Exit(2)
	}

	if err := run(req, logger); err != nil {
		logger.Error("pushsend failed", "err", err)
		os.Exit(1)
	}
}

// run owns every client it opens, so deferred cleanup happens before main exits.
func run(req *sendRequest, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Config Loading ---
	var yamlCfg YamlConfig
	if err := yaml.Unmarshal(configFile, &yamlCfg); err != nil {
		return fmt.Errorf("failed to unmarshal embedded yaml config: %w", err)
	}
	baseCfg, err := newAppConfig(&yamlCfg)
	if err != nil {
		return fmt.Errorf("config failed: %w", err)
	}
	cfg, err := applyEnvOverrides(baseCfg, logger)
	if err != nil {
		return fmt.Errorf("config failed: %w", err)
	}

	// --- Providers ---
	providers := make(map[push.TokenType]dispatch.Provider)

	var fbOpts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		fbOpts = append(fbOpts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, fbOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	fcmMessaging, err := fbApp.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("failed to create fcm messaging client: %w", err)
	}
	providers[push.TokenTypeAndroidFCM] = fcm.NewProvider(fcmMessaging, logger)

	if cfg.apnsEnabled() {
		apnsProvider, err := apns.NewProvider(cfg.APNS, logger)
		if err != nil {
			return fmt.Errorf("failed to create apns provider: %w", err)
		}
		providers[push.TokenTypeIOS] = apnsProvider
		providers[push.TokenTypeIOSDev] = apnsProvider
	} else {
		logger.Warn("APNs credentials missing. iOS tokens will be rejected.")
	}

	// --- Token Store (Decorated) ---
	var tokenStore dispatch.TokenStore
	if req.UserID != "" {
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			return fmt.Errorf("firestore client failed: %w", err)
		}
		defer fsClient.Close()
		tokenStore = fsStore.NewFirestoreStore(fsClient, cfg.RegistrationCollection, logger)

		if cfg.Redis.Enabled {
			logger.Info("Initializing Redis Cache layer...", "addr", cfg.Redis.Addr)
			redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			defer redisClient.Close()
			tokenStore = cache.NewCachedTokenStore(tokenStore, redisClient, cfg.Redis.CacheTTL, logger)
		}
	}

	s := sender.New(providers, tokenStore, cfg.Concurrency, logger)

	if req.UserID == "" {
		id, err := s.Send(ctx, req.Token, req.Message)
		if err != nil {
			return fmt.Errorf("send to %s token failed: %w", req.Token.Type, err)
		}
		logger.Info("Push sent", "type", req.Token.Type, "message_id", id)
		return nil
	}

	results, err := s.SendToUser(ctx, req.UserID, req.Message)
	if err != nil {
		return fmt.Errorf("send to user %s failed: %w", req.UserID, err)
	}
	return summarize(results, req.UserID, logger)
}

func summarize(results []sender.Result, userID string, logger *slog.Logger) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Warn("Push failed", "device", r.Device.DeviceID, "type", r.Device.Token.Type, "err", r.Err)
			continue
		}
		logger.Info("Push sent", "device", r.Device.DeviceID, "message_id", r.MessageID)
	}
	logger.Info("Send complete", "user", userID, "devices", len(results), "failed", failed)
	if failed > 0 && failed == len(results) {
		return fmt.Errorf("%w: %d devices", errAllFailed, failed)
	}
	return nil
}
