// Package native describes the native bridge modules the push bridge drives.
// The modules are opaque remote procedure endpoints implemented by the host
// application's platform glue (gomobile, a JS bridge, ...).
package native

import "context"

// AuthorizationOption is a bitmask of UNAuthorizationOptions.
type AuthorizationOption int

const (
	AuthorizationOptionBadge         AuthorizationOption = 1
	AuthorizationOptionSound         AuthorizationOption = 2
	AuthorizationOptionAlert         AuthorizationOption = 4
	AuthorizationOptionCarPlay       AuthorizationOption = 8
	AuthorizationOptionCriticalAlert AuthorizationOption = 16
)

// PresentAll is the willPresent acknowledgement that shows a notification.
const PresentAll = int(AuthorizationOptionSound | AuthorizationOptionAlert | AuthorizationOptionBadge)

// AuthorizationStatus mirrors UNAuthorizationStatus.
type AuthorizationStatus int

const (
	AuthorizationStatusNotDetermined AuthorizationStatus = 0
	AuthorizationStatusDenied        AuthorizationStatus = 1
	AuthorizationStatusAuthorized    AuthorizationStatus = 2
	AuthorizationStatusProvisional   AuthorizationStatus = 3
)

// BackgroundFetchResult mirrors UIBackgroundFetchResult as sent over the bridge.
type BackgroundFetchResult int

const (
	BackgroundFetchNewData BackgroundFetchResult = 1
	BackgroundFetchNoData  BackgroundFetchResult = 2
	BackgroundFetchFailed  BackgroundFetchResult = 3
)

// NotificationSettings is the subset of UNNotificationSettings the bridge reports.
type NotificationSettings struct {
	AuthorizationStatus       AuthorizationStatus `json:"authorizationStatus"`
	SoundSetting              int                 `json:"soundSetting"`
	BadgeSetting              int                 `json:"badgeSetting"`
	AlertSetting              int                 `json:"alertSetting"`
	NotificationCenterSetting int                 `json:"notificationCenterSetting"`
	LockScreenSetting         int                 `json:"lockScreenSetting"`
	AlertStyle                int                 `json:"alertStyle"`
}

// DeliveredNotification is a notification as reported by UNUserNotificationCenter.
type DeliveredNotification struct {
	Identifier         string         `json:"identifier"`
	Date               float64        `json:"date"` // epoch seconds
	Title              string         `json:"title,omitempty"`
	Subtitle           string         `json:"subtitle,omitempty"`
	Body               string         `json:"body,omitempty"`
	Sound              string         `json:"sound,omitempty"`
	Badge              *int           `json:"badge,omitempty"`
	CategoryIdentifier string         `json:"categoryIdentifier,omitempty"`
	ThreadIdentifier   string         `json:"threadIdentifier,omitempty"`
	UserInfo           map[string]any `json:"userInfo,omitempty"`
}

// NotificationArgs are the arguments of a locally posted iOS notification.
type NotificationArgs struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title,omitempty"`
	Subtitle           string         `json:"subtitle,omitempty"`
	Body               string         `json:"body,omitempty"`
	Badge              *int           `json:"badge,omitempty"`
	Sound              string         `json:"sound,omitempty"`
	CategoryIdentifier string         `json:"categoryIdentifier,omitempty"`
	ThreadIdentifier   string         `json:"threadIdentifier,omitempty"`
	UserInfo           map[string]any `json:"userInfo,omitempty"`
}

// CategoryAction is one UNNotificationAction of a Category.
type CategoryAction struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Title      string `json:"title" yaml:"title"`
	Options    int    `json:"options" yaml:"options"`
}

// Category is a UNNotificationCategory. It is configuration data handed to the
// native layer verbatim.
type Category struct {
	Identifier        string           `json:"identifier" yaml:"identifier"`
	Options           int              `json:"options" yaml:"options"`
	IntentIdentifiers []string         `json:"intentIdentifiers" yaml:"intent_identifiers"`
	Actions           []CategoryAction `json:"actions" yaml:"actions"`
}

// IOSModule is the iOS native push module.
type IOSModule interface {
	SetVerbose(verbose bool) error
	// InvokeCallback acknowledges a delivered event. Every event carrying a
	// callback key must be acknowledged exactly once.
	InvokeCallback(key string, value int) error
	SetApplicationIconBadgeNumber(value int) error
	RegisterForRemoteNotifications() error
	RequestAuthorization(ctx context.Context, options AuthorizationOption) error
	GetNotificationSettings(ctx context.Context) (NotificationSettings, error)
	RemoveDeliveredNotifications(ids []string) error
	BeginBackgroundTask(ctx context.Context) (string, error)
	EndBackgroundTask(id string) error
	GetDeliveredNotifications(ctx context.Context) ([]DeliveredNotification, error)
	OpenNotificationSettings() error
	ShowNotification(ctx context.Context, args NotificationArgs) error
	SetupCategories(categories []Category) error
}
