package background_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-push-bridge/internal/background"
	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/native/nativetest"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScope_IOS(t *testing.T) {
	ctx := context.Background()

	setup := func() (*nativetest.MockIOSModule, *background.Scope) {
		ios := new(nativetest.MockIOSModule)
		p := platform.New(push.CapabilityIOS, native.Bridge{IOS: ios}, 0)
		return ios, background.NewScope(p, background.Config{}, newTestLogger())
	}

	t.Run("Happy Path - releases after work", func(t *testing.T) {
		ios, scope := setup()
		ios.On("BeginBackgroundTask", mock.Anything).Return("task-1", nil).Once()
		ios.On("EndBackgroundTask", "task-1").Return(nil).Once()

		got, err := background.Run(ctx, scope, func(context.Context) (string, error) {
			ios.AssertNotCalled(t, "EndBackgroundTask", "task-1")
			return "done", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "done", got)
		ios.AssertExpectations(t)
	})

	t.Run("Work fails - still released once", func(t *testing.T) {
		ios, scope := setup()
		ios.On("BeginBackgroundTask", mock.Anything).Return("task-2", nil).Once()
		ios.On("EndBackgroundTask", "task-2").Return(nil).Once()

		workErr := errors.New("boom")
		err := scope.Do(ctx, func(context.Context) error { return workErr })

		assert.ErrorIs(t, err, workErr)
		ios.AssertNumberOfCalls(t, "BeginBackgroundTask", 1)
		ios.AssertNumberOfCalls(t, "EndBackgroundTask", 1)
	})

	t.Run("Work panics - still released once", func(t *testing.T) {
		ios, scope := setup()
		ios.On("BeginBackgroundTask", mock.Anything).Return("task-3", nil).Once()
		ios.On("EndBackgroundTask", "task-3").Return(nil).Once()

		assert.Panics(t, func() {
			_ = scope.Do(ctx, func(context.Context) error { panic("unexpected") })
		})
		ios.AssertNumberOfCalls(t, "EndBackgroundTask", 1)
	})

	t.Run("Acquire fails - work not run", func(t *testing.T) {
		ios, scope := setup()
		ios.On("BeginBackgroundTask", mock.Anything).Return("", errors.New("expired")).Once()

		ran := false
		err := scope.Do(ctx, func(context.Context) error { ran = true; return nil })

		require.Error(t, err)
		assert.False(t, ran)
		ios.AssertNotCalled(t, "EndBackgroundTask", mock.Anything)
	})
}

func TestScope_Android(t *testing.T) {
	ctx := context.Background()
	android := new(nativetest.MockAndroidModule)
	p := platform.New(push.CapabilityAndroid, native.Bridge{Android: android}, 0)
	scope := background.NewScope(p, background.Config{WakeLockTimeout: time.Minute}, newTestLogger())

	android.On("AcquireWakeLock", mock.Anything, background.DefaultWakeLockTag, time.Minute).Return("lock-1", nil)
	android.On("ReleaseWakeLock", "lock-1").Return(nil)

	for range 3 {
		_ = scope.Do(ctx, func(context.Context) error { return errors.New("fail") })
	}

	android.AssertNumberOfCalls(t, "AcquireWakeLock", 3)
	android.AssertNumberOfCalls(t, "ReleaseWakeLock", 3)
}

func TestScope_NoCapability(t *testing.T) {
	p := platform.New(push.CapabilityNone, native.Bridge{}, 0)
	scope := background.NewScope(p, background.Config{}, newTestLogger())

	got, err := background.Run(context.Background(), scope, func(context.Context) (int, error) { return 42, nil })

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
