package center_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-push-bridge/internal/center"
	"github.com/tinywideclouds/go-push-bridge/internal/platform"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
	"github.com/tinywideclouds/go-push-bridge/pkg/native/nativetest"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAndroidMirror() (*nativetest.MockAndroidModule, *center.Mirror) {
	android := new(nativetest.MockAndroidModule)
	p := platform.New(push.CapabilityAndroid, native.Bridge{Android: android}, 0)
	return android, center.NewMirror(p, newTestLogger())
}

func newIOSMirror() (*nativetest.MockIOSModule, *center.Mirror) {
	ios := new(nativetest.MockIOSModule)
	p := platform.New(push.CapabilityIOS, native.Bridge{IOS: ios}, 0)
	return ios, center.NewMirror(p, newTestLogger())
}

func TestMirror_AndroidRoundTripKeepsData(t *testing.T) {
	ctx := context.Background()
	android, mirror := newAndroidMirror()

	n := push.Notification{
		Title:     "Order shipped",
		Body:      "Your parcel is on the way",
		Subtitle:  "Tracking",
		ChannelID: "orders",
		Badge:     push.IntPtr(2),
		ThreadID:  "orders-group",
		Icon:      "ic_parcel",
		Data:      map[string]any{"orderId": "A-17", "nested": map[string]any{"x": 1}},
	}
	expectedArgs := native.AndroidNotification{
		ChannelID:  "orders",
		Title:      "Order shipped",
		Body:       "Your parcel is on the way",
		Subtext:    "Tracking",
		SmallIcon:  "ic_parcel",
		AutoCancel: push.BoolPtr(true),
		Number:     push.IntPtr(2),
		GroupKey:   "orders-group",
		Data:       n.Data,
	}
	android.On("ShowNotification", mock.Anything, expectedArgs).Return(42, nil).Once()
	android.On("GetNotifications", mock.Anything).Return([]native.ExistingNotification{
		{ID: "42", PostTime: 1700000000, Title: "Order shipped", Number: 2, ChannelID: "orders", Data: map[string]any{"orderId": "A-17"}},
		{ID: "7", PostTime: 1700000100, Title: "Posted elsewhere", Data: map[string]any{"partial": "yes"}},
	}, nil)

	id, err := mirror.Show(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	listed, err := mirror.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	assert.Equal(t, "42", listed[0].ID)
	assert.Equal(t, int64(1700000000000), listed[0].Date)
	assert.Equal(t, n.Data, listed[0].Data, "data comes from the local mirror")
	require.NotNil(t, listed[0].Badge)
	assert.Equal(t, 2, *listed[0].Badge)

	assert.Equal(t, map[string]any{"partial": "yes"}, listed[1].Data)
	assert.Nil(t, listed[1].Badge)
	android.AssertExpectations(t)
}

func TestMirror_AndroidOverridesApplyLast(t *testing.T) {
	ctx := context.Background()
	android, mirror := newAndroidMirror()

	n := push.Notification{
		Title:   "Generic",
		Ongoing: push.BoolPtr(true),
		Android: &push.AndroidOverrides{Title: "Specific", Priority: push.IntPtr(2), AutoCancel: push.BoolPtr(true)},
	}
	android.On("ShowNotification", mock.Anything, mock.MatchedBy(func(args native.AndroidNotification) bool {
		return args.Title == "Specific" &&
			*args.Priority == 2 &&
			*args.Ongoing &&
			*args.AutoCancel
	})).Return(1, nil).Once()

	_, err := mirror.Show(ctx, n)
	require.NoError(t, err)
	android.AssertExpectations(t)
}

func TestMirror_AndroidRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("Happy Path - cancels and forgets", func(t *testing.T) {
		android, mirror := newAndroidMirror()
		android.On("ShowNotification", mock.Anything, mock.Anything).Return(5, nil)
		android.On("CancelNotification", 5).Return(nil).Once()
		android.On("GetNotifications", mock.Anything).Return([]native.ExistingNotification{{ID: "5"}}, nil)

		_, err := mirror.Show(ctx, push.Notification{Data: map[string]any{"k": "v"}})
		require.NoError(t, err)
		require.NoError(t, mirror.Remove("5"))

		listed, err := mirror.List(ctx)
		require.NoError(t, err)
		assert.Nil(t, listed[0].Data)
		android.AssertExpectations(t)
	})

	t.Run("Non numeric id is a no-op", func(t *testing.T) {
		android, mirror := newAndroidMirror()

		require.NoError(t, mirror.Remove("not-a-number"))
		android.AssertNotCalled(t, "CancelNotification", mock.Anything)
	})

	t.Run("Nil tray listing serves posted records", func(t *testing.T) {
		android, mirror := newAndroidMirror()
		android.On("ShowNotification", mock.Anything, mock.Anything).Return(12, nil).Once()
		android.On("ShowNotification", mock.Anything, mock.Anything).Return(3, nil).Once()
		android.On("CancelNotification", 3).Return(nil).Once()
		android.On("GetNotifications", mock.Anything).Return(nil, nil)

		_, err := mirror.Show(ctx, push.Notification{Title: "first", Date: 1700000000000, Data: map[string]any{"k": "v"}})
		require.NoError(t, err)
		_, err = mirror.Show(ctx, push.Notification{Title: "second"})
		require.NoError(t, err)

		listed, err := mirror.List(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "3", listed[0].ID)
		assert.NotZero(t, listed[0].Date)
		assert.Equal(t, "12", listed[1].ID)
		assert.Equal(t, int64(1700000000000), listed[1].Date)
		assert.Equal(t, map[string]any{"k": "v"}, listed[1].Data)

		require.NoError(t, mirror.Remove("3"))
		listed, err = mirror.List(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "12", listed[0].ID)
	})

	t.Run("Nil tray listing without posted records is empty", func(t *testing.T) {
		android, mirror := newAndroidMirror()
		android.On("GetNotifications", mock.Anything).Return(nil, nil)

		listed, err := mirror.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})
}

func TestMirror_AndroidListForgetsDismissedRecords(t *testing.T) {
	ctx := context.Background()
	android, mirror := newAndroidMirror()
	android.On("ShowNotification", mock.Anything, mock.Anything).Return(8, nil).Once()
	android.On("GetNotifications", mock.Anything).Return([]native.ExistingNotification{}, nil).Once()
	android.On("GetNotifications", mock.Anything).Return(nil, nil).Once()

	_, err := mirror.Show(ctx, push.Notification{Title: "dismissed by the user"})
	require.NoError(t, err)

	listed, err := mirror.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	listed, err = mirror.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed, "dismissed record is not served by the fallback")
	android.AssertExpectations(t)
}

func TestMirror_IOSShow(t *testing.T) {
	ctx := context.Background()
	ios, mirror := newIOSMirror()

	var ids []string
	ios.On("ShowNotification", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		ids = append(ids, args.Get(1).(native.NotificationArgs).ID)
	})

	before := time.Now().UnixMilli()
	first, err := mirror.Show(ctx, push.Notification{
		Title:    "Hello",
		Sound:    "chime",
		Category: "chat",
		ThreadID: "t-1",
		Data:     map[string]any{"room": "r1"},
		IOS:      &push.IOSOverrides{Subtitle: "from overrides"},
	})
	require.NoError(t, err)
	second, err := mirror.Show(ctx, push.Notification{Title: "Again"})
	require.NoError(t, err)

	firstMs, err := strconv.ParseInt(first, 10, 64)
	require.NoError(t, err)
	secondMs, err := strconv.ParseInt(second, 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, firstMs, before)
	assert.Greater(t, secondMs, firstMs, "identifiers are unique")
	assert.Equal(t, []string{first, second}, ids)

	sent := ios.Calls[0].Arguments.Get(1).(native.NotificationArgs)
	assert.Equal(t, "chime.aiff", sent.Sound)
	assert.Equal(t, "from overrides", sent.Subtitle)
	assert.Equal(t, "chat", sent.CategoryIdentifier)
	assert.Equal(t, "t-1", sent.ThreadIdentifier)
	assert.Equal(t, map[string]any{"room": "r1"}, sent.UserInfo)

	unsounded := ios.Calls[1].Arguments.Get(1).(native.NotificationArgs)
	assert.Empty(t, unsounded.Sound)
}

func TestMirror_IOSListAndRemove(t *testing.T) {
	ctx := context.Background()
	ios, mirror := newIOSMirror()

	ios.On("GetDeliveredNotifications", mock.Anything).Return([]native.DeliveredNotification{
		{
			Identifier: "n-1",
			Date:       1700000000.25,
			Title:      "Hi",
			Badge:      push.IntPtr(0),
			UserInfo:   map[string]any{"aps": map[string]any{"badge": 1}, "chatId": "c-9"},
		},
	}, nil)
	ios.On("RemoveDeliveredNotifications", []string{"n-1"}).Return(nil).Once()

	listed, err := mirror.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(1700000000250), listed[0].Date)
	assert.Equal(t, map[string]any{"chatId": "c-9"}, listed[0].Data)
	assert.Nil(t, listed[0].Badge)

	require.NoError(t, mirror.Remove("n-1"))
	ios.AssertExpectations(t)
}

func TestMirror_WithoutCapability(t *testing.T) {
	ctx := context.Background()
	mirror := center.NewMirror(platform.New(push.CapabilityNone, native.Bridge{}, 0), newTestLogger())

	_, err := mirror.Show(ctx, push.Notification{Title: "x"})
	assert.ErrorIs(t, err, push.ErrCapabilityUnsupported)

	listed, err := mirror.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.NoError(t, mirror.Remove("1"))
}

func TestMirror_ShowFailure(t *testing.T) {
	ctx := context.Background()
	android, mirror := newAndroidMirror()
	android.On("ShowNotification", mock.Anything, mock.Anything).Return(0, errors.New("channel missing"))

	_, err := mirror.Show(ctx, push.Notification{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel missing")
}
