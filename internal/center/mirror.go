// Package center reads and writes the OS notification center. On Android it
// also keeps the outbound records it posted, since the tray listing loses the
// data payload it was posted with and is not available on every OS version.
package center

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

type Mirror struct {
	platform *platform.Platform
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	lastID int64
	known  map[string]push.Notification
}

func NewMirror(p *platform.Platform, logger *slog.Logger) *Mirror {
	return &Mirror{
		platform: p,
		logger:   logger.With("component", "NotificationCenter"),
		now:      time.Now,
		known:    make(map[string]push.Notification),
	}
}

// Show posts n and returns its identifier. On iOS the identifier is the
// current time in milliseconds; on Android it is chosen by the native layer.
func (m *Mirror) Show(ctx context.Context, n push.Notification) (string, error) {
	switch m.platform.Capability {
	case push.CapabilityIOS:
		id := m.nextIOSID()
		if err := m.platform.IOS.ShowNotification(ctx, iosArgs(id, n)); err != nil {
			return "", fmt.Errorf("show ios notification: %w", err)
		}
		m.logger.Debug("Notification posted", "id", id)
		return id, nil

	case push.CapabilityAndroid:
		nativeID, err := m.platform.Android.ShowNotification(ctx, androidArgs(n))
		if err != nil {
			return "", fmt.Errorf("show android notification: %w", err)
		}
		id := strconv.Itoa(nativeID)
		if n.Date == 0 {
			n.Date = m.now().UnixMilli()
		}
		m.mu.Lock()
		m.known[id] = n
		m.mu.Unlock()
		m.logger.Debug("Notification posted", "id", id)
		return id, nil

	default:
		return "", push.ErrCapabilityUnsupported
	}
}

// nextIOSID returns a millisecond timestamp, bumped when two notifications are
// posted within the same millisecond.
func (m *Mirror) nextIOSID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return strconv.FormatInt(id, 10)
}

// List returns the notifications currently in the notification center. When
// Android cannot list its tray, the records posted through Show and not yet
// removed are returned instead. A successful listing forgets posted records
// that are no longer in the tray.
func (m *Mirror) List(ctx context.Context) ([]push.Notification, error) {
	switch m.platform.Capability {
	case push.CapabilityIOS:
		delivered, err := m.platform.IOS.GetDeliveredNotifications(ctx)
		if err != nil {
			return nil, fmt.Errorf("get delivered notifications: %w", err)
		}
		out := make([]push.Notification, 0, len(delivered))
		for _, d := range delivered {
			out = append(out, FromDelivered(d))
		}
		return out, nil

	case push.CapabilityAndroid:
		existing, err := m.platform.Android.GetNotifications(ctx)
		if err != nil {
			return nil, fmt.Errorf("get notifications: %w", err)
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if existing == nil {
			return m.postedLocked(), nil
		}

		out := make([]push.Notification, 0, len(existing))
		inTray := make(map[string]struct{}, len(existing))
		for _, e := range existing {
			n := FromExisting(e)
			if posted, ok := m.known[e.ID]; ok {
				n.Data = posted.Data
			}
			inTray[e.ID] = struct{}{}
			out = append(out, n)
		}
		for id := range m.known {
			if _, ok := inTray[id]; !ok {
				delete(m.known, id)
			}
		}
		return out, nil

	default:
		return []push.Notification{}, nil
	}
}

// postedLocked returns the known records ordered by native id.
func (m *Mirror) postedLocked() []push.Notification {
	out := make([]push.Notification, 0, len(m.known))
	for id, n := range m.known {
		n.ID = id
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b push.Notification) int {
		x, _ := strconv.Atoi(a.ID)
		y, _ := strconv.Atoi(b.ID)
		return x - y
	})
	return out
}

// Remove clears one notification. An unknown id or a missing capability is a
// no-op.
func (m *Mirror) Remove(id string) error {
	switch m.platform.Capability {
	case push.CapabilityIOS:
		if err := m.platform.IOS.RemoveDeliveredNotifications([]string{id}); err != nil {
			return fmt.Errorf("remove delivered notification %s: %w", id, err)
		}
		return nil

	case push.CapabilityAndroid:
		nativeID, err := strconv.Atoi(id)
		if err != nil {
			m.logger.Debug("Ignoring removal of non numeric notification id", "id", id)
			return nil
		}
		if err := m.platform.Android.CancelNotification(nativeID); err != nil {
			return fmt.Errorf("cancel notification %d: %w", nativeID, err)
		}
		m.mu.Lock()
		delete(m.known, id)
		m.mu.Unlock()
		return nil

	default:
		return nil
	}
}
