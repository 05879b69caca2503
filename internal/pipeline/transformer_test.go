package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-push-bridge/internal/pipeline"
	"github.com/tinywideclouds/go-push-bridge/pkg/native"
)

func TestDecodeIOSEvent(t *testing.T) {
	testCases := []struct {
		name                  string
		payload               string
		expectedType          native.IOSEventType
		expectedErrorContains string
	}{
		{
			name:         "Happy Path - Will Present",
			payload:      `{"type":"willPresentNotification","callbackKey":"cb-1","notification":{"identifier":"n1","date":1700000000.5,"title":"Hi"}}`,
			expectedType: native.IOSWillPresent,
		},
		{
			name:         "Happy Path - Device Token",
			payload:      `{"type":"didRegisterForRemoteNotificationsWithDeviceToken","deviceToken":"abc","isDevEnvironment":true,"bundle":"com.x","locale":"en"}`,
			expectedType: native.IOSDidRegister,
		},
		{
			name:                  "Failure - Malformed JSON",
			payload:               `not-json`,
			expectedErrorContains: "failed to unmarshal ios event",
		},
		{
			name:                  "Failure - Unknown Type",
			payload:               `{"type":"somethingElse"}`,
			expectedErrorContains: "unknown native event type",
		},
		{
			name:                  "Failure - Response Without Notification",
			payload:               `{"type":"didReceiveNotificationResponse","callbackKey":"cb-2"}`,
			expectedErrorContains: "carries no notification",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := pipeline.DecodeIOSEvent([]byte(tc.payload))

			if tc.expectedErrorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedType, ev.Type)
		})
	}
}

func TestDecodeIOSEvent_Fields(t *testing.T) {
	ev, err := pipeline.DecodeIOSEvent([]byte(`{
		"type":"didReceiveRemoteNotification",
		"callbackKey":"cb-9",
		"userInfo":{"aps":{"badge":3,"alert":{"title":"T"}},"orderId":"42"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "cb-9", ev.CallbackKey)
	assert.Equal(t, "42", ev.UserInfo["orderId"])
	require.IsType(t, map[string]any{}, ev.UserInfo["aps"])
}

func TestDecodeAndroidEvent(t *testing.T) {
	t.Run("Happy Path - Clicked With Numeric Color", func(t *testing.T) {
		ev, err := pipeline.DecodeAndroidEvent([]byte(`{"type":"onNotificationClicked","id":17,"color":16711680,"number":2,"action":"reply"}`))
		require.NoError(t, err)

		assert.Equal(t, native.AndroidNotificationClicked, ev.Type)
		assert.Equal(t, 17, ev.ID)
		assert.Equal(t, float64(16711680), ev.Color)
		require.NotNil(t, ev.Number)
		assert.Equal(t, 2, *ev.Number)
	})

	t.Run("Happy Path - Received With String Color", func(t *testing.T) {
		ev, err := pipeline.DecodeAndroidEvent([]byte(`{"type":"onMessageReceived","messageId":"m-1","sentTime":1700000000000,"color":"#ff0000","data":{"k":"v"}}`))
		require.NoError(t, err)

		assert.Equal(t, "m-1", ev.MessageID)
		assert.Equal(t, int64(1700000000000), ev.SentTime)
		assert.Equal(t, "#ff0000", ev.Color)
		assert.Equal(t, map[string]any{"k": "v"}, ev.Data)
	})

	t.Run("Failure - Missing Type", func(t *testing.T) {
		_, err := pipeline.DecodeAndroidEvent([]byte(`{"messageId":"m-1"}`))
		require.ErrorIs(t, err, pipeline.ErrUnknownEventType)
	})

	t.Run("Failure - Malformed JSON", func(t *testing.T) {
		_, err := pipeline.DecodeAndroidEvent([]byte(`{`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal android event")
	})
}
