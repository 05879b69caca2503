package tokens_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/internal/tokens"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/native/nativetest"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func settings(s native.AuthorizationStatus) native.NotificationSettings {
	return native.NotificationSettings{AuthorizationStatus: s}
}

func newIOS(t *testing.T) (*nativetest.MockIOSModule, *platform.Platform, *tokens.Manager) {
	t.Helper()
	ios := new(nativetest.MockIOSModule)
	p := platform.New(push.CapabilityIOS, native.Bridge{IOS: ios}, 0)
	t.Cleanup(func() { _ = p.Close() })
	return ios, p, tokens.NewManager(p, newTestLogger())
}

func TestPermission_IOSMapping(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name   string
		status native.AuthorizationStatus
		want   push.PermissionStatus
	}{
		{name: "Authorized", status: native.AuthorizationStatusAuthorized, want: push.PermissionGranted},
		{name: "Denied", status: native.AuthorizationStatusDenied, want: push.PermissionDenied},
		{name: "NotDetermined stays unknown", status: native.AuthorizationStatusNotDetermined, want: push.PermissionUnknown},
		{name: "Provisional", status: native.AuthorizationStatusProvisional, want: push.PermissionUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ios, _, m := newIOS(t)
			ios.On("GetNotificationSettings", mock.Anything).Return(settings(tc.status), nil)

			got, err := m.GetPermissionStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			ios.AssertNotCalled(t, "RequestAuthorization", mock.Anything, mock.Anything)
		})
	}
}

func TestRequestPermission_IOS(t *testing.T) {
	ctx := context.Background()

	t.Run("Settled status does not prompt", func(t *testing.T) {
		ios, _, m := newIOS(t)
		ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusDenied), nil)

		got, err := m.RequestPermission(ctx)
		require.NoError(t, err)
		assert.Equal(t, push.PermissionDenied, got)
		ios.AssertNotCalled(t, "RequestAuthorization", mock.Anything, mock.Anything)
	})

	t.Run("Prompt accepted", func(t *testing.T) {
		ios, _, m := newIOS(t)
		ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusNotDetermined), nil)
		opts := native.AuthorizationOptionBadge | native.AuthorizationOptionAlert | native.AuthorizationOptionSound
		ios.On("RequestAuthorization", mock.Anything, opts).Return(nil).Once()

		got, err := m.RequestPermission(ctx)
		require.NoError(t, err)
		assert.Equal(t, push.PermissionGranted, got)
		ios.AssertExpectations(t)
	})

	t.Run("Prompt rejected resolves to denied", func(t *testing.T) {
		ios, _, m := newIOS(t)
		ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusNotDetermined), nil)
		ios.On("RequestAuthorization", mock.Anything, mock.Anything).Return(errors.New("user said no"))

		got, err := m.RequestPermission(ctx)
		require.NoError(t, err)
		assert.Equal(t, push.PermissionDenied, got)
	})
}

func TestPermission_WithoutCapability(t *testing.T) {
	ctx := context.Background()
	p := platform.New(push.CapabilityNone, native.Bridge{}, 0)
	m := tokens.NewManager(p, newTestLogger())

	status, err := m.GetPermissionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, push.PermissionUnknown, status)

	status, err = m.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, push.PermissionDenied, status)

	assert.NoError(t, m.OpenSettings())

	_, err = m.RequestToken(ctx)
	assert.ErrorIs(t, err, push.ErrCapabilityUnsupported)
}

func TestRequestToken_IOSConcurrentCallersShareOneRoundTrip(t *testing.T) {
	ctx := context.Background()
	ios, p, m := newIOS(t)
	ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusAuthorized), nil)

	release := make(chan struct{})
	ios.On("RegisterForRemoteNotifications").Return(nil).Run(func(mock.Arguments) {
		go func() {
			<-release
			_ = p.IOSEvents.Publish(ctx, native.IOSEvent{
				Type:        native.IOSDidRegister,
				DeviceToken: "abc123",
				Bundle:      "com.example.app",
				Locale:      "en-DE",
			})
		}()
	})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]push.Token, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = m.RequestToken(ctx)
		}()
	}

	// Let every caller reach the in-flight acquisition before it resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	want := push.Token{Type: push.TokenTypeIOS, Token: "abc123", ID: "com.example.app", Locale: "en-DE"}
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
	ios.AssertNumberOfCalls(t, "RegisterForRemoteNotifications", 1)

	// Cached afterwards: no further native traffic.
	again, err := m.RequestToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, again)
	ios.AssertNumberOfCalls(t, "RegisterForRemoteNotifications", 1)

	// The one-shot listener is gone.
	assert.Eventually(t, func() bool { return p.IOSEvents.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRequestToken_IOSDevEnvironment(t *testing.T) {
	ctx := context.Background()
	ios, p, m := newIOS(t)
	ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusAuthorized), nil)
	ios.On("RegisterForRemoteNotifications").Return(nil).Run(func(mock.Arguments) {
		go func() {
			_ = p.IOSEvents.Publish(ctx, native.IOSEvent{Type: native.IOSWillPresent, CallbackKey: "unrelated"})
			_ = p.IOSEvents.Publish(ctx, native.IOSEvent{Type: native.IOSDidRegister, DeviceToken: "dev", IsDevEnvironment: true})
		}()
	})

	tok, err := m.RequestToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, push.TokenTypeIOSDev, tok.Type)
}

func TestRequestToken_PermissionDeniedNeverRegisters(t *testing.T) {
	ctx := context.Background()
	ios, _, m := newIOS(t)
	ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusDenied), nil)

	_, err := m.RequestToken(ctx)

	assert.ErrorIs(t, err, push.ErrPermissionDenied)
	ios.AssertNotCalled(t, "RegisterForRemoteNotifications")
	_, cached := m.Current()
	assert.False(t, cached)
}

func TestRequestToken_IOSRegistrationFailure(t *testing.T) {
	ctx := context.Background()
	ios, p, m := newIOS(t)
	ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusAuthorized), nil)
	ios.On("RegisterForRemoteNotifications").Return(nil).Run(func(mock.Arguments) {
		go func() {
			_ = p.IOSEvents.Publish(ctx, native.IOSEvent{
				Type:    native.IOSDidFailToRegister,
				Message: "no valid aps-environment entitlement",
				Code:    3000,
			})
		}()
	})

	_, err := m.RequestToken(ctx)

	var regErr *push.RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "no valid aps-environment entitlement", regErr.Message)
	assert.Equal(t, 3000, regErr.Code)
	_, cached := m.Current()
	assert.False(t, cached, "failures are not cached")
}

func TestRequestToken_CallerCancellationDoesNotAbortRoundTrip(t *testing.T) {
	ios, p, m := newIOS(t)
	ios.On("GetNotificationSettings", mock.Anything).Return(settings(native.AuthorizationStatusAuthorized), nil)
	registered := make(chan struct{})
	ios.On("RegisterForRemoteNotifications").Return(nil).Run(func(mock.Arguments) { close(registered) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := m.RequestToken(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	<-registered

	require.NoError(t, p.IOSEvents.Publish(context.Background(), native.IOSEvent{Type: native.IOSDidRegister, DeviceToken: "late"}))

	assert.Eventually(t, func() bool {
		tok, ok := m.Current()
		return ok && tok.Token == "late"
	}, time.Second, 5*time.Millisecond)
	ios.AssertNumberOfCalls(t, "RegisterForRemoteNotifications", 1)
}

func TestRequestToken_Android(t *testing.T) {
	ctx := context.Background()
	android := new(nativetest.MockAndroidModule)
	p := platform.New(push.CapabilityAndroid, native.Bridge{Android: android}, 0)
	m := tokens.NewManager(p, newTestLogger())

	android.On("GetFirebaseInstanceID", mock.Anything).Return("fcm-token", nil).Once()
	android.On("GetSystemInfo", mock.Anything).Return(native.SystemInfo{PackageName: "de.example", Locale: "de-DE"}, nil).Once()

	for range 3 {
		tok, err := m.RequestToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, push.Token{Type: push.TokenTypeAndroidFCM, Token: "fcm-token", ID: "de.example", Locale: "de-DE"}, tok)
	}
	android.AssertExpectations(t)
}

func TestRequestToken_AndroidInstanceIDFailure(t *testing.T) {
	ctx := context.Background()
	android := new(nativetest.MockAndroidModule)
	p := platform.New(push.CapabilityAndroid, native.Bridge{Android: android}, 0)
	m := tokens.NewManager(p, newTestLogger())

	android.On("GetFirebaseInstanceID", mock.Anything).Return("", errors.New("firebase not set up"))

	_, err := m.RequestToken(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firebase not set up")
	android.AssertNotCalled(t, "GetSystemInfo", mock.Anything)
}
