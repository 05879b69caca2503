// Package pushbridge is the host facing surface of the push bridge. A Client
// wires the platform probe, the token manager, the event normalizer, the
// foreground decision pipeline and the notification center mirror together.
package pushbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/tinywideclouds/go-push-bridge/internal/background"
	"github.com/tinywideclouds/go-push-bridge/internal/center"
	"github.com/tinywideclouds/go-push-bridge/internal/events"
	"github.com/tinywideclouds/go-push-bridge/internal/pipeline"
	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/internal/tokens"
	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
	"github.com/tinywideclouds/go-push-bridge/pushbridge/config"
)

// ErrNoTokenStore is returned by RegisterToken when no store was configured.
var ErrNoTokenStore = errors.New("pushbridge: no token store configured")

// Client is the push bridge. Create it once per process.
type Client struct {
	cfg    *config.Config
	logger *slog.Logger
	level  *slog.LevelVar
	store  dispatch.TokenStore

	platform   *platform.Platform
	scope      *background.Scope
	hooks      *pipeline.Hooks
	mirror     *center.Mirror
	tokens     *tokens.Manager
	normalizer *events.Normalizer

	verbose atomic.Bool
}

// New assembles a Client and installs the event listener. A nil cfg uses the
// defaults.
func New(cfg *config.Config, bridge native.Bridge, logger *slog.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.With("component", "PushBridge"),
		level:  o.level,
		store:  o.store,
	}

	if o.capability != nil {
		c.platform = platform.New(*o.capability, bridge, cfg.EventBufferSize)
	} else {
		c.platform = platform.Probe(bridge, cfg.EventBufferSize, logger)
	}

	onError := o.onError
	if onError == nil {
		onError = func(err error) {
			c.logger.Error("Push event processing failed", "err", err)
		}
	}

	c.scope = background.NewScope(c.platform, background.Config{
		WakeLockTag:     cfg.WakeLockTag,
		WakeLockTimeout: cfg.WakeLockTimeout,
	}, logger)
	c.hooks = pipeline.NewHooks()
	c.mirror = center.NewMirror(c.platform, logger)
	c.tokens = tokens.NewManager(c.platform, logger)
	processor := pipeline.NewProcessor(c.hooks, c.scope, c.mirror, logger)
	c.normalizer = events.NewNormalizer(c.platform, processor, onError, cfg.EventBufferSize, logger)

	if cfg.Verbose {
		if err := c.SetVerbose(true); err != nil {
			return nil, fmt.Errorf("failed to enable verbose mode: %w", err)
		}
	}

	c.SetupEvents()
	c.logger.Info("Push bridge ready", "capability", c.platform.Capability.String())
	return c, nil
}

// Capability reports the native capability resolved for this process.
func (c *Client) Capability() push.Capability { return c.platform.Capability }

// SetupEvents installs the native event listener. It is idempotent.
func (c *Client) SetupEvents() { c.normalizer.Setup() }

func (c *Client) GetPermissionStatus(ctx context.Context) (push.PermissionStatus, error) {
	return c.tokens.GetPermissionStatus(ctx)
}

func (c *Client) RequestPermission(ctx context.Context) (push.PermissionStatus, error) {
	return c.tokens.RequestPermission(ctx)
}

func (c *Client) OpenSettings() error { return c.tokens.OpenSettings() }

// RequestToken returns the process token, performing the native registration
// round trip at most once.
func (c *Client) RequestToken(ctx context.Context) (push.Token, error) {
	return c.tokens.RequestToken(ctx)
}

// RegisterToken requests the process token and stores it under userID. An
// empty deviceID is derived from the token.
func (c *Client) RegisterToken(ctx context.Context, userID, deviceID string) (dispatch.Device, error) {
	if c.store == nil {
		return dispatch.Device{}, ErrNoTokenStore
	}
	tok, err := c.RequestToken(ctx)
	if err != nil {
		return dispatch.Device{}, err
	}
	if deviceID == "" {
		deviceID = dispatch.DeviceID(tok.Token)
	}
	device := dispatch.Device{DeviceID: deviceID, Token: tok, UpdatedAt: time.Now()}
	if err := c.store.Register(ctx, userID, device); err != nil {
		return dispatch.Device{}, fmt.Errorf("failed to register token for user %s: %w", userID, err)
	}
	c.logger.Info("Registered push token", "user", userID, "device", deviceID, "type", tok.Type)
	return device, nil
}

// OnNotification subscribes to received notifications until ctx ends or the
// stream is closed. A subscriber that falls EventBufferSize values behind
// misses notifications rather than delaying the native layer.
func (c *Client) OnNotification(ctx context.Context) push.Stream[push.Notification] {
	return c.normalizer.Notifications().Subscribe(ctx)
}

// OnInteraction subscribes to notification interactions.
func (c *Client) OnInteraction(ctx context.Context) push.Stream[push.Interaction] {
	return c.normalizer.Interactions().Subscribe(ctx)
}

// LastInteraction is the most recent interaction, including one that happened
// before any subscriber was attached.
func (c *Client) LastInteraction() (push.Interaction, bool) {
	return c.normalizer.LastInteraction()
}

// SetShowHook replaces the foreground display predicate. nil restores the default.
func (c *Client) SetShowHook(fn push.Hook) { c.hooks.SetShow(fn) }

// SetFetchHook replaces the data fetch handler. nil restores the default.
func (c *Client) SetFetchHook(fn push.Hook) { c.hooks.SetFetch(fn) }

func (c *Client) GetNotifications(ctx context.Context) ([]push.Notification, error) {
	return c.mirror.List(ctx)
}

func (c *Client) RemoveNotification(id string) error { return c.mirror.Remove(id) }

// ShowNotification posts n to the OS notification center and returns its id.
func (c *Client) ShowNotification(ctx context.Context, n push.Notification) (string, error) {
	return c.mirror.Show(ctx, n)
}

// RunInBackground runs work while the process is kept alive.
func (c *Client) RunInBackground(ctx context.Context, work func(ctx context.Context) error) error {
	return c.scope.Do(ctx, work)
}

// SetVerbose toggles debug logging here and in the native module.
func (c *Client) SetVerbose(verbose bool) error {
	c.verbose.Store(verbose)
	if c.level != nil {
		if verbose {
			c.level.Set(slog.LevelDebug)
		} else {
			c.level.Set(slog.LevelInfo)
		}
	}
	switch c.platform.Capability {
	case push.CapabilityIOS:
		return c.platform.IOS.SetVerbose(verbose)
	case push.CapabilityAndroid:
		return c.platform.Android.SetVerbose(verbose)
	}
	return nil
}

// Verbose reports the last value passed to SetVerbose.
func (c *Client) Verbose() bool { return c.verbose.Load() }

// SetBadge sets the application icon badge.
func (c *Client) SetBadge(n int) error {
	switch c.platform.Capability {
	case push.CapabilityIOS:
		return c.platform.IOS.SetApplicationIconBadgeNumber(n)
	case push.CapabilityAndroid:
		return c.platform.Android.SetShortcutBadger(n)
	}
	return nil
}

// SetupPlatform hands the configured categories (iOS) or channels (Android)
// to the native layer.
func (c *Client) SetupPlatform() error {
	switch c.platform.Capability {
	case push.CapabilityIOS:
		if err := c.platform.IOS.SetupCategories(c.cfg.IOSCategories); err != nil {
			return fmt.Errorf("failed to set up notification categories: %w", err)
		}
	case push.CapabilityAndroid:
		for _, ch := range c.cfg.AndroidChannels {
			if err := c.platform.Android.CreateNotificationChannel(ch); err != nil {
				return fmt.Errorf("failed to create notification channel %s: %w", ch.ID, err)
			}
		}
	}
	return nil
}

// HandleNativeEvent decodes a JSON event emitted by the native glue for the
// active platform and feeds it to the listener.
func (c *Client) HandleNativeEvent(ctx context.Context, payload []byte) error {
	switch c.platform.Capability {
	case push.CapabilityIOS:
		ev, err := pipeline.DecodeIOSEvent(payload)
		if err != nil {
			return err
		}
		return c.EmitIOSEvent(ctx, ev)
	case push.CapabilityAndroid:
		ev, err := pipeline.DecodeAndroidEvent(payload)
		if err != nil {
			return err
		}
		return c.EmitAndroidEvent(ctx, ev)
	}
	return push.ErrCapabilityUnsupported
}

// EmitIOSEvent publishes a typed iOS event. It blocks while the listener's
// buffer is full.
func (c *Client) EmitIOSEvent(ctx context.Context, ev native.IOSEvent) error {
	if c.platform.Capability != push.CapabilityIOS {
		return push.ErrCapabilityUnsupported
	}
	return c.platform.IOSEvents.Publish(ctx, ev)
}

// EmitAndroidEvent publishes a typed Android event.
func (c *Client) EmitAndroidEvent(ctx context.Context, ev native.AndroidEvent) error {
	if c.platform.Capability != push.CapabilityAndroid {
		return push.ErrCapabilityUnsupported
	}
	return c.platform.AndroidEvents.Publish(ctx, ev)
}

// Close stops the listener and releases the event channels.
func (c *Client) Close() error {
	err := c.normalizer.Close()
	return errors.Join(err, c.platform.Close())
}
