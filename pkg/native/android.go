package native

import (
	"context"
	"time"

	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// Channel is an Android notification channel. It is configuration data handed
// to the native layer verbatim.
type Channel struct {
	ID                   string `json:"id" yaml:"id"`
	Name                 string `json:"name,omitempty" yaml:"name"`
	Importance           *int   `json:"importance,omitempty" yaml:"importance"`
	LockscreenVisibility *int   `json:"lockscreenVisibility,omitempty" yaml:"lockscreen_visibility"`
	LightColor           *int   `json:"lightColor,omitempty" yaml:"light_color"`
	BypassDnd            *bool  `json:"bypassDnd,omitempty" yaml:"bypass_dnd"`
	Sound                string `json:"sound,omitempty" yaml:"sound"`
}

// SystemInfo describes the installed Android package.
type SystemInfo struct {
	PackageName          string `json:"packageName"`
	Locale               string `json:"locale"`
	NotificationsEnabled *bool  `json:"notificationsEnabled,omitempty"`
}

// AndroidNotification are the arguments of a posted Android notification.
// It shares its shape with push.AndroidOverrides so overrides apply field by field.
type AndroidNotification = push.AndroidOverrides

// ExistingNotification is a notification currently posted in the Android tray.
// The data map only carries what survives the notification extras bundle.
type ExistingNotification struct {
	ID        string         `json:"id"`
	Ongoing   bool           `json:"ongoing"`
	PostTime  int64          `json:"postTime"` // epoch seconds
	Color     *int           `json:"color,omitempty"`
	Number    int            `json:"number"`
	Title     string         `json:"title,omitempty"`
	Subtext   string         `json:"subtext,omitempty"`
	Body      string         `json:"body,omitempty"`
	ChannelID string         `json:"channelID,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// AndroidModule is the Android native push module.
type AndroidModule interface {
	SetVerbose(verbose bool) error
	SetShortcutBadger(value int) error
	GetFirebaseInstanceID(ctx context.Context) (string, error)
	GetSystemInfo(ctx context.Context) (SystemInfo, error)
	CreateNotificationChannel(channel Channel) error
	DeleteNotificationChannel(id string) error
	OpenNotificationSettings() error
	CancelNotification(id int) error
	// GetNotifications returns nil when the platform cannot list the tray.
	GetNotifications(ctx context.Context) ([]ExistingNotification, error)
	// ShowNotification posts a notification and returns the id chosen natively.
	ShowNotification(ctx context.Context, args AndroidNotification) (int, error)
	AcquireWakeLock(ctx context.Context, tag string, timeout time.Duration) (string, error)
	ReleaseWakeLock(key string) error
}

// Bridge bundles the native modules registered by the host glue. At most one
// of them is non-nil on a real device.
type Bridge struct {
	IOS     IOSModule
	Android AndroidModule
}
