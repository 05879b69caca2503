// Package pipeline contains the inbound processing stages of the bridge: the
// wire codec for raw native events and the foreground decision pipeline that
// runs the host hooks and acknowledges the native layer.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tinywideclouds/go-push-bridge/pkg/native"
)

// ErrUnknownEventType is returned for a payload whose type discriminator is
// missing or not one the platform emits.
var ErrUnknownEventType = errors.New("unknown native event type")

// DecodeIOSEvent unmarshals a raw tagged iOS bridge event.
func DecodeIOSEvent(payload []byte) (native.IOSEvent, error) {
	var ev native.IOSEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return native.IOSEvent{}, fmt.Errorf("failed to unmarshal ios event: %w", err)
	}

	switch ev.Type {
	case native.IOSDidRegister, native.IOSDidFailToRegister:
	case native.IOSDidReceiveRemote:
	case native.IOSWillPresent, native.IOSDidReceiveResponse:
		if ev.Notification == nil {
			return native.IOSEvent{}, fmt.Errorf("ios event %s carries no notification", ev.Type)
		}
	default:
		return native.IOSEvent{}, fmt.Errorf("ios event %q: %w", ev.Type, ErrUnknownEventType)
	}
	return ev, nil
}

// DecodeAndroidEvent unmarshals a raw tagged Android bridge event.
func DecodeAndroidEvent(payload []byte) (native.AndroidEvent, error) {
	var ev native.AndroidEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return native.AndroidEvent{}, fmt.Errorf("failed to unmarshal android event: %w", err)
	}

	switch ev.Type {
	case native.AndroidMessageReceived, native.AndroidNotificationClicked, native.AndroidNotificationIntent:
		return ev, nil
	default:
		return native.AndroidEvent{}, fmt.Errorf("android event %q: %w", ev.Type, ErrUnknownEventType)
	}
}
