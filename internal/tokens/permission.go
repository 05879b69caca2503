package tokens

import (
	"context"
	"fmt"

	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// requestedOptions are the capabilities asked for by the consent prompt.
const requestedOptions = native.AuthorizationOptionBadge | native.AuthorizationOptionAlert | native.AuthorizationOptionSound

// mapAuthorization maps UNAuthorizationStatus to the canonical enum.
// NotDetermined and Provisional both report Unknown; NotDetermined is never
// folded into Denied.
func mapAuthorization(s native.AuthorizationStatus) push.PermissionStatus {
	switch s {
	case native.AuthorizationStatusAuthorized:
		return push.PermissionGranted
	case native.AuthorizationStatusDenied:
		return push.PermissionDenied
	default:
		return push.PermissionUnknown
	}
}

// GetPermissionStatus reads the current authorization without prompting.
func (m *Manager) GetPermissionStatus(ctx context.Context) (push.PermissionStatus, error) {
	switch m.platform.Capability {
	case push.CapabilityIOS:
		settings, err := m.platform.IOS.GetNotificationSettings(ctx)
		if err != nil {
			return push.PermissionUnknown, fmt.Errorf("get notification settings: %w", err)
		}
		return mapAuthorization(settings.AuthorizationStatus), nil
	case push.CapabilityAndroid:
		return push.PermissionGranted, nil
	default:
		return push.PermissionUnknown, nil
	}
}

// RequestPermission returns a settled authorization as is and otherwise shows
// the consent prompt. A rejected prompt resolves to Denied.
func (m *Manager) RequestPermission(ctx context.Context) (push.PermissionStatus, error) {
	switch m.platform.Capability {
	case push.CapabilityIOS:
		settings, err := m.platform.IOS.GetNotificationSettings(ctx)
		if err != nil {
			return push.PermissionUnknown, fmt.Errorf("get notification settings: %w", err)
		}
		switch settings.AuthorizationStatus {
		case native.AuthorizationStatusAuthorized:
			return push.PermissionGranted, nil
		case native.AuthorizationStatusDenied:
			return push.PermissionDenied, nil
		}
		if err := m.platform.IOS.RequestAuthorization(ctx, requestedOptions); err != nil {
			m.logger.Info("Notification authorization rejected", "err", err)
			return push.PermissionDenied, nil
		}
		return push.PermissionGranted, nil
	case push.CapabilityAndroid:
		return push.PermissionGranted, nil
	default:
		return push.PermissionDenied, nil
	}
}

// OpenSettings opens the OS notification settings of this app.
func (m *Manager) OpenSettings() error {
	switch m.platform.Capability {
	case push.CapabilityIOS:
		return m.platform.IOS.OpenNotificationSettings()
	case push.CapabilityAndroid:
		return m.platform.Android.OpenNotificationSettings()
	default:
		return nil
	}
}
