// Package nativetest provides testify mocks of the native bridge modules so the
// push bridge can be driven without a device.
package nativetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
)

// MockIOSModule mocks native.IOSModule.
type MockIOSModule struct {
	mock.Mock
}

var _ native.IOSModule = (*MockIOSModule)(nil)

func (m *MockIOSModule) SetVerbose(verbose bool) error {
	return m.Called(verbose).Error(0)
}

func (m *MockIOSModule) InvokeCallback(key string, value int) error {
	return m.Called(key, value).Error(0)
}

func (m *MockIOSModule) SetApplicationIconBadgeNumber(value int) error {
	return m.Called(value).Error(0)
}

func (m *MockIOSModule) RegisterForRemoteNotifications() error {
	return m.Called().Error(0)
}

func (m *MockIOSModule) RequestAuthorization(ctx context.Context, options native.AuthorizationOption) error {
	return m.Called(ctx, options).Error(0)
}

func (m *MockIOSModule) GetNotificationSettings(ctx context.Context) (native.NotificationSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(native.NotificationSettings), args.Error(1)
}

func (m *MockIOSModule) RemoveDeliveredNotifications(ids []string) error {
	return m.Called(ids).Error(0)
}

func (m *MockIOSModule) BeginBackgroundTask(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockIOSModule) EndBackgroundTask(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockIOSModule) GetDeliveredNotifications(ctx context.Context) ([]native.DeliveredNotification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]native.DeliveredNotification), args.Error(1)
}

func (m *MockIOSModule) OpenNotificationSettings() error {
	return m.Called().Error(0)
}

func (m *MockIOSModule) ShowNotification(ctx context.Context, args native.NotificationArgs) error {
	return m.Called(ctx, args).Error(0)
}

func (m *MockIOSModule) SetupCategories(categories []native.Category) error {
	return m.Called(categories).Error(0)
}

// MockAndroidModule mocks native.AndroidModule.
type MockAndroidModule struct {
	mock.Mock
}

var _ native.AndroidModule = (*MockAndroidModule)(nil)

func (m *MockAndroidModule) SetVerbose(verbose bool) error {
	return m.Called(verbose).Error(0)
}

func (m *MockAndroidModule) SetShortcutBadger(value int) error {
	return m.Called(value).Error(0)
}

func (m *MockAndroidModule) GetFirebaseInstanceID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAndroidModule) GetSystemInfo(ctx context.Context) (native.SystemInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(native.SystemInfo), args.Error(1)
}

func (m *MockAndroidModule) CreateNotificationChannel(channel native.Channel) error {
	return m.Called(channel).Error(0)
}

func (m *MockAndroidModule) DeleteNotificationChannel(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockAndroidModule) OpenNotificationSettings() error {
	return m.Called().Error(0)
}

func (m *MockAndroidModule) CancelNotification(id int) error {
	return m.Called(id).Error(0)
}

func (m *MockAndroidModule) GetNotifications(ctx context.Context) ([]native.ExistingNotification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]native.ExistingNotification), args.Error(1)
}

func (m *MockAndroidModule) ShowNotification(ctx context.Context, args native.AndroidNotification) (int, error) {
	ret := m.Called(ctx, args)
	return ret.Int(0), ret.Error(1)
}

func (m *MockAndroidModule) AcquireWakeLock(ctx context.Context, tag string, timeout time.Duration) (string, error) {
	args := m.Called(ctx, tag, timeout)
	return args.String(0), args.Error(1)
}

func (m *MockAndroidModule) ReleaseWakeLock(key string) error {
	return m.Called(key).Error(0)
}
