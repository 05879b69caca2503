package native

// IOSEventType discriminates raw iOS bridge events.
type IOSEventType string

const (
	IOSDidRegister        IOSEventType = "didRegisterForRemoteNotificationsWithDeviceToken"
	IOSDidFailToRegister  IOSEventType = "didFailToRegisterForRemoteNotificationsWithError"
	IOSDidReceiveRemote   IOSEventType = "didReceiveRemoteNotification"
	IOSWillPresent        IOSEventType = "willPresentNotification"
	IOSDidReceiveResponse IOSEventType = "didReceiveNotificationResponse"
)

// IOSDefaultActionIdentifier is UNNotificationDefaultActionIdentifier.
const IOSDefaultActionIdentifier = "com.apple.UNNotificationDefaultActionIdentifier"

// IOSEvent is one raw event of the iOS bridge. Which fields are populated
// depends on Type.
type IOSEvent struct {
	Type IOSEventType `json:"type"`

	// didRegisterForRemoteNotificationsWithDeviceToken
	DeviceToken      string `json:"deviceToken,omitempty"`
	IsDevEnvironment bool   `json:"isDevEnvironment,omitempty"`
	Bundle           string `json:"bundle,omitempty"`
	Locale           string `json:"locale,omitempty"`

	// didFailToRegisterForRemoteNotificationsWithError
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`

	// didReceiveRemoteNotification
	UserInfo map[string]any `json:"userInfo,omitempty"`

	// willPresentNotification, didReceiveNotificationResponse
	Notification     *DeliveredNotification `json:"notification,omitempty"`
	ActionIdentifier string                 `json:"actionIdentifier,omitempty"`

	CallbackKey string `json:"callbackKey,omitempty"`
}

// AndroidEventType discriminates raw Android bridge events.
type AndroidEventType string

const (
	AndroidMessageReceived     AndroidEventType = "onMessageReceived"
	AndroidNotificationClicked AndroidEventType = "onNotificationClicked"
	AndroidNotificationIntent  AndroidEventType = "onNotificationIntent"
)

// AndroidEvent is one raw event of the Android bridge.
type AndroidEvent struct {
	Type AndroidEventType `json:"type"`

	// onMessageReceived, onNotificationIntent
	From        string `json:"from,omitempty"`
	MessageID   string `json:"messageId,omitempty"`
	CollapseKey string `json:"collapseKey,omitempty"`
	SentTime    int64  `json:"sentTime,omitempty"`

	// onNotificationClicked
	ID        int    `json:"id,omitempty"`
	Action    string `json:"action,omitempty"`
	Subtext   string `json:"subtext,omitempty"`
	Number    *int   `json:"number,omitempty"`
	// Color is numeric for clicks but a "#rrggbb" string for received messages.
	Color     any    `json:"color,omitempty"`
	ChannelID string `json:"channelID,omitempty"`

	Title string         `json:"title,omitempty"`
	Body  string         `json:"body,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}
