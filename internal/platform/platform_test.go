package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/native/nativetest"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

func TestDetect(t *testing.T) {
	ios := new(nativetest.MockIOSModule)
	android := new(nativetest.MockAndroidModule)

	testCases := []struct {
		name   string
		goos   string
		bridge native.Bridge
		want   push.Capability
	}{
		{name: "iOS with module", goos: "ios", bridge: native.Bridge{IOS: ios}, want: push.CapabilityIOS},
		{name: "Android with module", goos: "android", bridge: native.Bridge{Android: android}, want: push.CapabilityAndroid},
		{name: "iOS without module", goos: "ios", bridge: native.Bridge{}, want: push.CapabilityNone},
		{name: "Module for the wrong OS", goos: "android", bridge: native.Bridge{IOS: ios}, want: push.CapabilityNone},
		{name: "Desktop", goos: "linux", bridge: native.Bridge{IOS: ios, Android: android}, want: push.CapabilityNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, platform.Detect(tc.goos, tc.bridge))
		})
	}
}

func TestNew_SelectsOnlyActiveVariant(t *testing.T) {
	bridge := native.Bridge{IOS: new(nativetest.MockIOSModule), Android: new(nativetest.MockAndroidModule)}

	t.Run("iOS", func(t *testing.T) {
		p := platform.New(push.CapabilityIOS, bridge, 0)
		t.Cleanup(func() { _ = p.Close() })
		assert.NotNil(t, p.IOS)
		assert.NotNil(t, p.IOSEvents)
		assert.Nil(t, p.Android)
		assert.Nil(t, p.AndroidEvents)
	})

	t.Run("Android", func(t *testing.T) {
		p := platform.New(push.CapabilityAndroid, bridge, 0)
		t.Cleanup(func() { _ = p.Close() })
		assert.Nil(t, p.IOS)
		assert.NotNil(t, p.Android)
		assert.NotNil(t, p.AndroidEvents)
	})

	t.Run("None", func(t *testing.T) {
		p := platform.New(push.CapabilityNone, bridge, 0)
		assert.Nil(t, p.IOS)
		assert.Nil(t, p.Android)
		assert.Equal(t, "none", p.Capability.String())
	})
}
