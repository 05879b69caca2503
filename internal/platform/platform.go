// Package platform resolves which native push capability is active for the
// lifetime of the process and hands the matching module and event channel to
// every other component.
package platform

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/tinywideclouds/go-push-bridge/internal/broadcast"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// Platform is the process scoped selection of the native capability. It is
// immutable after Probe returns; only the field matching Capability is set.
type Platform struct {
	Capability push.Capability

	IOS       native.IOSModule
	IOSEvents *broadcast.Hub[native.IOSEvent]

	Android       native.AndroidModule
	AndroidEvents *broadcast.Hub[native.AndroidEvent]
}

// Detect maps the reported OS and the registered modules to a capability.
// A module registered for the wrong OS is ignored.
func Detect(goos string, bridge native.Bridge) push.Capability {
	switch {
	case goos == "ios" && bridge.IOS != nil:
		return push.CapabilityIOS
	case goos == "android" && bridge.Android != nil:
		return push.CapabilityAndroid
	default:
		return push.CapabilityNone
	}
}

// New builds the Platform for an explicit capability. It is the seam tests use
// to substitute doubles regardless of the build OS.
func New(capability push.Capability, bridge native.Bridge, bufferSize int) *Platform {
	p := &Platform{Capability: capability}
	switch capability {
	case push.CapabilityIOS:
		p.IOS = bridge.IOS
		p.IOSEvents = broadcast.NewHub[native.IOSEvent](bufferSize)
	case push.CapabilityAndroid:
		p.Android = bridge.Android
		p.AndroidEvents = broadcast.NewHub[native.AndroidEvent](bufferSize)
	}
	return p
}

var (
	probeOnce sync.Once
	probed    *Platform
)

// Probe resolves the capability from runtime.GOOS once per process. Later
// calls return the first result and ignore their arguments.
func Probe(bridge native.Bridge, bufferSize int, logger *slog.Logger) *Platform {
	probeOnce.Do(func() {
		c := Detect(runtime.GOOS, bridge)
		probed = New(c, bridge, bufferSize)
		logger.Info("Native push capability resolved", "component", "PlatformProbe", "capability", c.String(), "goos", runtime.GOOS)
	})
	return probed
}

// Close releases the event channel.
func (p *Platform) Close() error {
	if p.IOSEvents != nil {
		_ = p.IOSEvents.Close()
	}
	if p.AndroidEvents != nil {
		_ = p.AndroidEvents.Close()
	}
	return nil
}
