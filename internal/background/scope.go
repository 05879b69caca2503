// Package background runs units of work while holding a platform liveness
// guarantee: a background task on iOS, a wake lock on Android.
package background

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

const (
	DefaultWakeLockTag     = "runInBackground"
	DefaultWakeLockTimeout = 5 * time.Minute
)

// Config bounds the Android wake lock.
type Config struct {
	WakeLockTag     string
	WakeLockTimeout time.Duration
}

// Scope acquires and releases the liveness guarantee around a unit of work.
type Scope struct {
	platform *platform.Platform
	cfg      Config
	logger   *slog.Logger
}

func NewScope(p *platform.Platform, cfg Config, logger *slog.Logger) *Scope {
	if cfg.WakeLockTag == "" {
		cfg.WakeLockTag = DefaultWakeLockTag
	}
	if cfg.WakeLockTimeout <= 0 {
		cfg.WakeLockTimeout = DefaultWakeLockTimeout
	}
	return &Scope{
		platform: p,
		cfg:      cfg,
		logger:   logger.With("component", "BackgroundScope"),
	}
}

// Do runs work while the guarantee is held. The guarantee is released exactly
// once after work returns, fails or panics. If the guarantee cannot be
// acquired, work is not run and the acquisition error is returned.
func (s *Scope) Do(ctx context.Context, work func(ctx context.Context) error) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return work(ctx)
}

// Run is Do for work producing a value.
func Run[T any](ctx context.Context, s *Scope, work func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := s.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = work(ctx)
		return err
	})
	return out, err
}

func (s *Scope) acquire(ctx context.Context) (func(), error) {
	switch s.platform.Capability {
	case push.CapabilityIOS:
		id, err := s.platform.IOS.BeginBackgroundTask(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin background task: %w", err)
		}
		s.logger.Debug("Background task begun", "task_id", id)
		return func() {
			if err := s.platform.IOS.EndBackgroundTask(id); err != nil {
				s.logger.Warn("Failed to end background task", "task_id", id, "err", err)
			}
		}, nil

	case push.CapabilityAndroid:
		key, err := s.platform.Android.AcquireWakeLock(ctx, s.cfg.WakeLockTag, s.cfg.WakeLockTimeout)
		if err != nil {
			return nil, fmt.Errorf("acquire wake lock: %w", err)
		}
		s.logger.Debug("Wake lock acquired", "key", key, "timeout", s.cfg.WakeLockTimeout)
		return func() {
			if err := s.platform.Android.ReleaseWakeLock(key); err != nil {
				s.logger.Warn("Failed to release wake lock", "key", key, "err", err)
			}
		}, nil

	default:
		return func() {}, nil
	}
}
