// Package push contains the platform-independent domain model shared by every
// component of the push bridge: tokens, notification records, interactions and
// the permission/capability enumerations.
package push

import "context"

// TokenType identifies the delivery network a Token belongs to.
type TokenType string

const (
	TokenTypeIOS        TokenType = "ios"
	TokenTypeIOSDev     TokenType = "ios-dev"
	TokenTypeAndroidFCM TokenType = "android-fcm"
)

// Token addresses one installed app instance for push delivery.
type Token struct {
	Type   TokenType `json:"type" firestore:"type"`
	Token  string    `json:"token" firestore:"token"`
	ID     string    `json:"id" firestore:"id"` // bundle id or package name
	Locale string    `json:"locale" firestore:"locale"`
}

// PermissionStatus is the canonical notification authorization state.
type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
	PermissionUnknown PermissionStatus = "unknown"
)

// Capability is the native push capability present in this process.
type Capability int

const (
	CapabilityNone Capability = iota
	CapabilityIOS
	CapabilityAndroid
)

func (c Capability) String() string {
	switch c {
	case CapabilityIOS:
		return "ios"
	case CapabilityAndroid:
		return "android"
	default:
		return "none"
	}
}

// Notification is the canonical record for both inbound (received) and
// outbound (to be shown) notifications.
type Notification struct {
	ID       string         `json:"id,omitempty"`
	Date     int64          `json:"date,omitempty"` // epoch milliseconds
	Data     map[string]any `json:"data,omitempty"`
	Title    string         `json:"title,omitempty"`
	Body     string         `json:"body,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	Sound    string         `json:"sound,omitempty"`
	Badge    *int           `json:"badge,omitempty"`
	ThreadID string         `json:"threadID,omitempty"`
	// ChannelID is the Android notification channel.
	ChannelID string `json:"channelID,omitempty"`
	Category  string `json:"category,omitempty"`
	Color     *int   `json:"color,omitempty"`
	Ongoing   *bool  `json:"ongoing,omitempty"`
	Icon      string `json:"icon,omitempty"`

	// Platform specific overrides, applied on top of the fields above when the
	// notification is shown.
	IOS     *IOSOverrides     `json:"ios,omitempty"`
	Android *AndroidOverrides `json:"android,omitempty"`
}

// Interaction is a Notification the user acted upon.
type Interaction struct {
	Notification
	// Action is "default" or an application defined action identifier.
	Action string `json:"action"`
}

// ActionDefault is the canonical action of a plain tap on a notification.
const ActionDefault = "default"

// Hook is a host supplied predicate evaluated for inbound notifications.
// Hooks may block; they are always awaited before the native layer is acknowledged.
type Hook func(ctx context.Context, n Notification) (bool, error)

// Always is the default Hook.
func Always(context.Context, Notification) (bool, error) { return true, nil }

// Stream is a subscription to one of the host facing event streams.
type Stream[T any] interface {
	// C delivers events in emission order.
	C() <-chan T
	// Close detaches the subscription. It is idempotent.
	Close() error
}

// IntPtr is a convenience for the optional numeric fields.
func IntPtr(v int) *int { return &v }

// BoolPtr is a convenience for the optional boolean fields.
func BoolPtr(v bool) *bool { return &v }
