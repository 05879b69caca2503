// Package tokens owns notification authorization and the process wide push
// token: it is derived lazily, at most one native round trip is in flight, and
// the result is cached for the life of the process.
package tokens

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

const flightKey = "token"

type Manager struct {
	platform *platform.Platform
	logger   *slog.Logger

	current atomic.Pointer[push.Token]
	flight  singleflight.Group
}

func NewManager(p *platform.Platform, logger *slog.Logger) *Manager {
	return &Manager{
		platform: p,
		logger:   logger.With("component", "TokenManager"),
	}
}

// Current returns the cached token, if one has been resolved.
func (m *Manager) Current() (push.Token, bool) {
	if t := m.current.Load(); t != nil {
		return *t, true
	}
	return push.Token{}, false
}

// RequestToken returns the process token, acquiring it on first use.
//
// Concurrent callers share one acquisition. The acquisition itself is detached
// from ctx: a caller giving up only stops its own wait, the native round trip
// keeps going and still fills the cache. A failed acquisition is not cached.
func (m *Manager) RequestToken(ctx context.Context) (push.Token, error) {
	if t, ok := m.Current(); ok {
		return t, nil
	}
	if m.platform.Capability == push.CapabilityNone {
		return push.Token{}, push.ErrCapabilityUnsupported
	}

	detached := context.WithoutCancel(ctx)
	ch := m.flight.DoChan(flightKey, func() (any, error) {
		if t, ok := m.Current(); ok {
			return t, nil
		}
		t, err := m.acquire(detached)
		if err != nil {
			return nil, err
		}
		m.current.Store(&t)
		m.logger.Info("Push token resolved", "type", t.Type, "app_id", t.ID)
		return t, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return push.Token{}, res.Err
		}
		return res.Val.(push.Token), nil
	case <-ctx.Done():
		return push.Token{}, ctx.Err()
	}
}

func (m *Manager) acquire(ctx context.Context) (push.Token, error) {
	status, err := m.RequestPermission(ctx)
	if err != nil {
		return push.Token{}, err
	}
	if status != push.PermissionGranted {
		return push.Token{}, push.ErrPermissionDenied
	}

	switch m.platform.Capability {
	case push.CapabilityIOS:
		return m.acquireIOS(ctx)
	case push.CapabilityAndroid:
		return m.acquireAndroid(ctx)
	default:
		return push.Token{}, push.ErrCapabilityUnsupported
	}
}

// acquireIOS registers for remote notifications and waits for exactly one
// terminal registration event. The one-shot subscription is installed before
// the native call and closed as soon as an outcome arrives.
func (m *Manager) acquireIOS(ctx context.Context) (push.Token, error) {
	sub := m.platform.IOSEvents.Subscribe(ctx)
	defer sub.Close()

	if err := m.platform.IOS.RegisterForRemoteNotifications(); err != nil {
		return push.Token{}, fmt.Errorf("register for remote notifications: %w", err)
	}

	for {
		select {
		case ev := <-sub.C():
			switch ev.Type {
			case native.IOSDidRegister:
				t := push.Token{
					Type:   push.TokenTypeIOS,
					Token:  ev.DeviceToken,
					ID:     ev.Bundle,
					Locale: ev.Locale,
				}
				if ev.IsDevEnvironment {
					t.Type = push.TokenTypeIOSDev
				}
				return t, nil
			case native.IOSDidFailToRegister:
				return push.Token{}, &push.RegistrationError{Message: ev.Message, Code: ev.Code}
			}
		case <-sub.Done():
			return push.Token{}, fmt.Errorf("event channel closed while waiting for registration: %w", push.ErrCapabilityUnsupported)
		case <-ctx.Done():
			return push.Token{}, ctx.Err()
		}
	}
}

func (m *Manager) acquireAndroid(ctx context.Context) (push.Token, error) {
	id, err := m.platform.Android.GetFirebaseInstanceID(ctx)
	if err != nil {
		return push.Token{}, fmt.Errorf("get firebase instance id: %w", err)
	}
	info, err := m.platform.Android.GetSystemInfo(ctx)
	if err != nil {
		return push.Token{}, fmt.Errorf("get system info: %w", err)
	}
	return push.Token{
		Type:   push.TokenTypeAndroidFCM,
		Token:  id,
		ID:     info.PackageName,
		Locale: info.Locale,
	}, nil
}
